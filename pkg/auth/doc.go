// Package auth provides password hashing and signed-in state on top of the
// cookie session.
//
// Passwords are stored as "bcrypt$..." (HashPassword) or
// "pbkdf2$<iterations>$<salt>$<hash>" (HashPasswordPBKDF2); CheckPassword
// accepts both.
//
//	if !auth.CheckPassword(form.Get("password"), user.PasswordHash) {
//	    ...
//	}
//	resp := shipy.Redirect("/")
//	if err := auth.Login(r, resp, user.ID); err != nil {
//	    return nil, err
//	}
//
// middlewares.RequireLogin redirects anonymous visitors away from routes
// that need a user.
package auth
