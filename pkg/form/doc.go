// Package form validates classic HTML form submissions.
//
// Validators chain and collect messages per field; templates refill inputs
// from Data and show Errors next to each field:
//
//	f := form.New(r.Form().URLValues()).Require("title").Min("title", 3)
//	if !f.OK() {
//	    return shipy.Render(ctx, http.StatusUnprocessableEntity, views.NewTodo(f))
//	}
//	title := f.Sanitized("title")
package form
