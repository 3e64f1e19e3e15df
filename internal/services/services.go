package services

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/fsdevblog/popuplink/internal/codegen"
	"github.com/fsdevblog/popuplink/internal/db"
	"github.com/fsdevblog/popuplink/internal/repositories"
	"github.com/fsdevblog/popuplink/internal/repositories/memstore"
	"github.com/fsdevblog/popuplink/internal/repositories/sql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceTypeSQLite   ServiceType = "sqlite"
	ServiceTypeInMemory ServiceType = "inMemory"
)

type Services struct {
	Links    *LinkService
	Resolver *ResolveService
	Counters *CounterService
}

type FactoryParams struct {
	Conn        any
	Type        ServiceType
	Generator   *codegen.Generator
	BaseURL     *url.URL
	RequireAuth bool
	Logger      *logrus.Logger
}

func Factory(p FactoryParams) (*Services, error) {
	var repo repositories.LinkRepository

	switch p.Type {
	case ServiceTypeSQLite:
		gormDB, ok := p.Conn.(*gorm.DB)
		if !ok {
			return nil, errors.New("invalid connection type. expected *gorm.DB")
		}
		repo = sql.NewLinkRepo(gormDB, p.Logger)
	case ServiceTypeInMemory:
		store, ok := p.Conn.(*db.MemoryStorage)
		if !ok {
			return nil, errors.New("invalid connection type. expected *db.MemoryStorage")
		}
		repo = memstore.NewLinkRepo(store)
	default:
		return nil, fmt.Errorf("unknown service type: %s", p.Type)
	}

	return &Services{
		Links:    NewLinkService(repo, p.Generator, p.BaseURL, p.RequireAuth, p.Logger),
		Resolver: NewResolveService(repo, p.Logger),
		Counters: NewCounterService(repo, p.Logger),
	}, nil
}
