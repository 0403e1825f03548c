package barcode

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver SQLite en Go puro

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/pkg/logger"
)

var _ ports.BarcodeLookup = (*CachedLookup)(nil)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS barcode_cache (
	barcode    TEXT PRIMARY KEY,
	payload    TEXT,
	fetched_at INTEGER NOT NULL
)`

// CachedLookup decorador con caché SQLite local. Guarda también los códigos desconocidos
// (payload NULL) para no repetir consultas externas durante el TTL.
type CachedLookup struct {
	inner ports.BarcodeLookup
	db    *sql.DB
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// OpenCache abre (o crea) la base SQLite en path. ":memory:" sirve para pruebas.
func OpenCache(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir caché de códigos: %w", err)
	}
	// SQLite admite un solo escritor; con :memory: cada conexión sería otra base.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("crear tabla de caché: %w", err)
	}
	return db, nil
}

// NewCachedLookup envuelve inner. log puede ser nil.
func NewCachedLookup(inner ports.BarcodeLookup, db *sql.DB, ttl time.Duration, log *logger.Logger) *CachedLookup {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CachedLookup{inner: inner, db: db, ttl: ttl, log: log, now: time.Now}
}

// Lookup responde desde la caché si la entrada está vigente; si no, consulta y guarda.
// Los errores de la caché se registran y no interrumpen la consulta.
func (c *CachedLookup) Lookup(ctx context.Context, code string) (*dto.BarcodeProductDTO, error) {
	if p, hit, err := c.get(ctx, code); err != nil {
		c.log.Warn().Err(err).Str("barcode", code).Msg("caché de códigos: lectura fallida")
	} else if hit {
		return p, nil
	}

	p, err := c.inner.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := c.put(ctx, code, p); err != nil {
		c.log.Warn().Err(err).Str("barcode", code).Msg("caché de códigos: escritura fallida")
	}
	return p, nil
}

func (c *CachedLookup) get(ctx context.Context, code string) (*dto.BarcodeProductDTO, bool, error) {
	var (
		payload   sql.NullString
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM barcode_cache WHERE barcode = ?`, code,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.now().Sub(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false, nil
	}
	if !payload.Valid {
		return nil, true, nil
	}
	var p dto.BarcodeProductDTO
	if err := json.Unmarshal([]byte(payload.String), &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *CachedLookup) put(ctx context.Context, code string, p *dto.BarcodeProductDTO) error {
	var payload sql.NullString
	if p != nil {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		payload = sql.NullString{String: string(raw), Valid: true}
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO barcode_cache (barcode, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(barcode) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		code, payload, c.now().Unix())
	return err
}
