package ports

import (
	"context"
	"time"
)

// Cache define el puerto de caché para resultados de reportes (Redis en producción).
// Los valores se serializan como JSON.
type Cache interface {
	// Get carga el valor en dest; found=false si la clave no existe o expiró.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix invalida todas las claves que empiezan con prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// NopCache nunca encuentra nada. Se usa cuando Redis no está configurado.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (NopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NopCache) DeletePrefix(context.Context, string) error            { return nil }
