package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Errs collects human-readable rejection reasons in check order.
type Errs []string

func (e Errs) Error() string { return strings.Join(e, "; ") }

func (e *Errs) add(msgs ...string) { *e = append(*e, msgs...) }

func (e Errs) Empty() bool { return len(e) == 0 }

// First returns the first reason, or "" when there is none.
func (e Errs) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0]
}

// space matches what browsers treat as whitespace, including no-break and
// other Unicode spaces; RE2's \s is ASCII only.
const space = `\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	emailRe    = regexp.MustCompile(`^[^@` + space + `]+@[^@` + space + `]+\.[^@` + space + `]+$`)
	answerRe   = regexp.MustCompile(`^[a-zA-Z0-9áéíóúÁÉÍÓÚñÑüÜ` + space + `]+$`)
	forumRe    = regexp.MustCompile(`^[a-zA-Z0-9áéíóúÁÉÍÓÚñÑ` + space + `]+$`)
)

func length(s string) int { return utf8.RuneCountInString(s) }

func between(s string, min, max int) bool {
	n := length(s)
	return n >= min && n <= max
}

// HasEmoji reports runes in the emoticon, pictograph and transport blocks.
func HasEmoji(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x1F600 && r <= 0x1F64F,
			r >= 0x1F300 && r <= 0x1F5FF,
			r >= 0x1F680 && r <= 0x1F6FF:
			return true
		}
	}
	return false
}

func hasSpace(s string) bool { return strings.IndexFunc(s, unicode.IsSpace) >= 0 }

func Username(v string) Errs {
	var errs Errs
	if !between(v, 5, 15) {
		errs.add("username must be between 5 and 15 characters")
	}
	if v != "" && !usernameRe.MatchString(v) {
		errs.add("username may only contain letters and numbers")
	}
	return errs
}

func Email(v string) Errs {
	var errs Errs
	if !between(v, 5, 100) {
		errs.add("email must be between 5 and 100 characters")
	}
	if v != "" && !emailRe.MatchString(v) {
		errs.add("email format is not valid")
	}
	return errs
}

// Password checks the new password and its confirmation.
func Password(pw, confirm string) Errs {
	var errs Errs
	if !between(pw, 8, 16) {
		errs.add("password must be between 8 and 16 characters")
	}
	if hasSpace(pw) {
		errs.add("password may not contain spaces")
	}
	if pw != confirm {
		errs.add("passwords do not match")
	}
	if HasEmoji(pw) {
		errs.add("password may not contain emoji")
	}
	return errs
}

func SecurityQuestion(v string) Errs {
	var errs Errs
	if !between(v, 10, 100) {
		errs.add("security question must be between 10 and 100 characters")
	}
	if HasEmoji(v) {
		errs.add("security question may not contain emoji")
	}
	return errs
}

func SecurityAnswer(v string) Errs {
	var errs Errs
	if !between(v, 2, 60) {
		errs.add("security answer must be between 2 and 60 characters")
	}
	if HasEmoji(v) {
		errs.add("security answer may not contain emoji")
	}
	if v != "" && !answerRe.MatchString(v) {
		errs.add("security answer may only contain letters, numbers and spaces")
	}
	return errs
}

func ForumName(v string) Errs {
	var errs Errs
	if !between(v, 5, 30) {
		errs.add("forum name must be between 5 and 30 characters")
	}
	if v != "" && !forumRe.MatchString(v) {
		errs.add("forum name may not contain special symbols")
	}
	return errs
}

func ForumDescription(v string) Errs {
	if !between(v, 10, 200) {
		return Errs{"forum description must be between 10 and 200 characters"}
	}
	return nil
}

func PostContent(v string) Errs {
	if !between(v, 10, 300) {
		return Errs{"post must be between 10 and 300 characters"}
	}
	return nil
}

func CommentContent(v string) Errs {
	if !between(v, 5, 150) {
		return Errs{"comment must be between 5 and 150 characters"}
	}
	return nil
}

func SearchQuery(v string) Errs {
	if v == "" || length(v) > 30 {
		return Errs{"invalid search term"}
	}
	return nil
}

// Required fails fast on the first empty value, in argument order.
func Required(pairs ...string) Errs {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return Errs{pairs[i] + " is required"}
		}
	}
	return nil
}

type Registration struct {
	Username         string
	Email            string
	Password         string
	ConfirmPassword  string
	SecurityQuestion string
	SecurityAnswer   string
	AcceptTerms      bool
}

// Register collects every violation instead of stopping at the first.
func Register(in Registration) Errs {
	var errs Errs
	errs.add(Username(in.Username)...)
	errs.add(Email(in.Email)...)
	errs.add(Password(in.Password, in.ConfirmPassword)...)
	errs.add(SecurityQuestion(in.SecurityQuestion)...)
	errs.add(SecurityAnswer(in.SecurityAnswer)...)
	if !in.AcceptTerms {
		errs.add("you must accept the terms and conditions")
	}
	return errs
}

func Forum(name, description string) Errs {
	var errs Errs
	errs.add(ForumName(name)...)
	errs.add(ForumDescription(description)...)
	return errs
}
