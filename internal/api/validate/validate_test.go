package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/hearthcloud/internal/api/validate"
)

func TestForumName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"exactly 5", "Heart", true},
		{"exactly 30", strings.Repeat("a", 30), true},
		{"4 chars", "Hear", false},
		{"31 chars", strings.Repeat("a", 31), false},
		{"accented and spaces", "Salud del Corazón", true},
		{"at sign short", "a@b", false},
		{"at sign in range", "Heart@Health", false},
		{"at sign at 30", strings.Repeat("a", 29) + "@", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			errs := validate.ForumName(tc.in)
			assert.Equal(t, tc.ok, errs.Empty(), "errs=%v", errs)
		})
	}
}

func TestRegister_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	errs := validate.Register(validate.Registration{
		Username:         "ab",
		Email:            "nope",
		Password:         "short",
		ConfirmPassword:  "other",
		SecurityQuestion: "why?",
		SecurityAnswer:   "x",
	})
	require.GreaterOrEqual(t, len(errs), 6)
	assert.Contains(t, errs, "username must be between 5 and 15 characters")
	assert.Contains(t, errs, "email format is not valid")
	assert.Contains(t, errs, "passwords do not match")
	assert.Contains(t, errs, "you must accept the terms and conditions")
}

func TestRegister_Valid(t *testing.T) {
	t.Parallel()

	errs := validate.Register(validate.Registration{
		Username:         "tester123",
		Email:            "a@b.com",
		Password:         "Passw0rd!",
		ConfirmPassword:  "Passw0rd!",
		SecurityQuestion: "First pet's name?",
		SecurityAnswer:   "Firulais",
		AcceptTerms:      true,
	})
	assert.Empty(t, errs)
}

func TestPassword(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.Password("Passw0rd!", "Passw0rd!"))
	assert.Contains(t, validate.Password("Pass w0rd", "Pass w0rd"), "password may not contain spaces")
	assert.Contains(t, validate.Password("Passw0rd😀", "Passw0rd😀"), "password may not contain emoji")
	assert.Contains(t, validate.Password(strings.Repeat("a", 17), strings.Repeat("a", 17)),
		"password must be between 8 and 16 characters")
}

func TestSecurityAnswer(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.SecurityAnswer("Ñandú azul"))
	assert.NotEmpty(t, validate.SecurityAnswer("dog!"))
	assert.NotEmpty(t, validate.SecurityAnswer("a"))
	assert.NotEmpty(t, validate.SecurityAnswer("perro 🚀"))
}

func TestUnicodeSpaces(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.ForumName("Heart\u00a0Health"))
	assert.Empty(t, validate.ForumName("Heart\u3000Health"))
	assert.Empty(t, validate.SecurityAnswer("perro\u00a0azul"))
	assert.Empty(t, validate.SecurityAnswer("perro\u2003azul"))
	assert.NotEmpty(t, validate.Email("a\u00a0b@example.com"))
	assert.NotEmpty(t, validate.ForumName("Heart\u200bHealth"), "zero-width space is not whitespace")
}

func TestUsernameAndEmail(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.Username("tester123"))
	assert.NotEmpty(t, validate.Username("tester_123"))
	assert.Empty(t, validate.Email("a@b.com"))
	assert.NotEmpty(t, validate.Email("a b@c.com"))
	assert.NotEmpty(t, validate.Email("a@bcom"))
}

func TestContentLengths(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.PostContent(strings.Repeat("p", 10)))
	assert.NotEmpty(t, validate.PostContent(strings.Repeat("p", 9)))
	assert.NotEmpty(t, validate.PostContent(strings.Repeat("p", 301)))
	assert.Empty(t, validate.CommentContent(strings.Repeat("c", 150)))
	assert.NotEmpty(t, validate.CommentContent("four"))
	assert.Empty(t, validate.ForumDescription(strings.Repeat("d", 200)))
	assert.NotEmpty(t, validate.ForumDescription("too short"))
}

func TestSearchQuery(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.SearchQuery("heart"))
	assert.NotEmpty(t, validate.SearchQuery(""))
	assert.NotEmpty(t, validate.SearchQuery(strings.Repeat("q", 31)))
}

func TestRequired_FailsFast(t *testing.T) {
	t.Parallel()

	errs := validate.Required("email", "", "password", "")
	require.Len(t, errs, 1)
	assert.Equal(t, "email is required", errs.First())
	assert.Empty(t, validate.Required("email", "a@b.com", "password", "x"))
}
