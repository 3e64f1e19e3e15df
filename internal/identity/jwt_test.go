package identity

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProvider_IssueParse(t *testing.T) {
	p := NewJWTProvider("test-secret")

	token, err := p.Issue("user-1", time.Hour)
	require.NoError(t, err)

	u, err := p.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
}

func TestJWTProvider_Parse_Invalid(t *testing.T) {
	p := NewJWTProvider("test-secret")

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not.a.token" },
		}, {
			name: "wrong secret",
			token: func(t *testing.T) string {
				other := NewJWTProvider("other-secret")
				token, err := other.Issue("user-1", time.Hour)
				require.NoError(t, err)
				return token
			},
		}, {
			name: "expired",
			token: func(t *testing.T) string {
				token, err := p.Issue("user-1", -time.Minute)
				require.NoError(t, err)
				return token
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.token(t))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTProvider_CurrentUser(t *testing.T) {
	p := NewJWTProvider("test-secret")
	token, err := p.Issue("user-1", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	u, err := p.CurrentUser(r)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)

	// Без заголовка - анонимный запрос, не ошибка.
	anon := httptest.NewRequest("GET", "/", nil)
	u, err = p.CurrentUser(anon)
	require.NoError(t, err)
	assert.Nil(t, u)
}
