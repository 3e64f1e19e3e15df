package identity

import (
	"context"
	"net/http"
)

// User аутентифицированный пользователь от внешнего провайдера идентичности.
type User struct {
	ID string
}

// Provider отвечает на вопрос "какой пользователь делает запрос".
// nil-пользователь без ошибки означает анонимный запрос.
type Provider interface {
	CurrentUser(r *http.Request) (*User, error)
}

// Anonymous провайдер для варианта приложения без аккаунтов.
type Anonymous struct{}

func (Anonymous) CurrentUser(_ *http.Request) (*User, error) {
	return nil, nil //nolint:nilnil
}

type ctxKey struct{}

// WithUser кладет пользователя в контекст запроса.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext достает пользователя из контекста. nil если запрос анонимный.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}
