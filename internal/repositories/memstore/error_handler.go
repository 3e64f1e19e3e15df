package memstore

import (
	"github.com/fsdevblog/popuplink/internal/db/memory"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/pkg/errors"
)

// convertErrorType переводит ошибки хранилища в ошибки слоя репозитория.
func convertErrorType(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memory.ErrNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, memory.ErrDuplicateKey):
		return repositories.ErrDuplicateKey
	case errors.Is(err, repositories.ErrUnknown):
		return err
	default:
		return errors.Wrap(repositories.ErrUnknown, err.Error())
	}
}
