package session

// Flash kinds.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-time notice queued in the session.
type Flash struct {
	Kind string `json:"kind"`
	Msg  string `json:"msg"`
}

// AddFlash appends a flash message to v. An empty kind means FlashInfo.
func AddFlash(v Values, kind, msg string) {
	if kind == "" {
		kind = FlashInfo
	}
	v[FlashKey] = append(Flashes(v), Flash{Kind: kind, Msg: msg})
}

// Flashes returns the queued messages without clearing them.
func Flashes(v Values) []Flash {
	switch list := v[FlashKey].(type) {
	case []Flash:
		return append([]Flash(nil), list...)
	case []any:
		out := make([]Flash, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			kind, _ := m["kind"].(string)
			msg, _ := m["msg"].(string)
			out = append(out, Flash{Kind: kind, Msg: msg})
		}
		return out
	default:
		return nil
	}
}

// PullFlashes returns the queued messages and clears them from v.
// The key is reset to an empty list rather than removed.
func PullFlashes(v Values) []Flash {
	out := Flashes(v)
	if len(out) > 0 {
		v[FlashKey] = []Flash{}
	}
	return out
}
