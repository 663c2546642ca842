package auth

// Credentials is the single operator account the dashboard accepts.
type Credentials struct {
	Username string
	Password string
}

// Result carries per-field validity for a login attempt.
type Result struct {
	UsernameOK     bool
	PasswordOK     bool
	UsernameError  string
	PasswordError  string
	ShouldRedirect bool
}

// Validate checks a submitted pair against the configured credentials.
// The check short-circuits: a wrong username is reported alone and the
// password is not evaluated at all, so a wrong username never leaks whether
// the password would also have failed.
func (c Credentials) Validate(username, password string) Result {
	if username != c.Username {
		return Result{
			PasswordOK:    true,
			UsernameError: "Invalid username.",
		}
	}
	if password != c.Password {
		return Result{
			UsernameOK:    true,
			PasswordError: "Invalid password.",
		}
	}
	return Result{
		UsernameOK:     true,
		PasswordOK:     true,
		ShouldRedirect: true,
	}
}

// SubmitEnabled reports whether the login button should be clickable.
// Independent of credential correctness: both fields non-empty is enough.
func SubmitEnabled(username, password string) bool {
	return username != "" && password != ""
}
