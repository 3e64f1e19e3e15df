package db

import (
	"github.com/fsdevblog/popuplink/internal/db/memory"
)

// MemoryStorage in-memory хранилище записей ссылок, ключом служит короткий
// код. Используется по умолчанию и в тестах вместо sqlite.
type MemoryStorage struct {
	*memory.MStorage
}

func NewMemStorage() *MemoryStorage {
	return &MemoryStorage{
		MStorage: memory.NewMemStorage(),
	}
}
