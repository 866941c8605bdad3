// Package countscache keeps the latest inbox board where every API replica
// can read it without rescanning orders.
package countscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

const boardKey = "fulfillment:board"

// DefaultTTL bounds how long a board survives if no projector refreshes it.
const DefaultTTL = 10 * time.Minute

// RedisStore implements ports.BoardStore on a single Redis key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and pings it. A ttl of zero uses DefaultTTL.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, board services.Board) error {
	data, err := json.Marshal(fromBoard(board))
	if err != nil {
		return err
	}

	return s.client.Set(ctx, boardKey, data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context) (services.Board, error) {
	data, err := s.client.Get(ctx, boardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return services.Board{}, errs.NewObjectNotFoundError("board", boardKey)
	}
	if err != nil {
		return services.Board{}, err
	}

	var dto boardDTO
	if err = json.Unmarshal(data, &dto); err != nil {
		return services.Board{}, err
	}

	return dto.toBoard()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is the single-process BoardStore used when no Redis address is
// configured.
type MemoryStore struct {
	mu    sync.RWMutex
	board *services.Board
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, board services.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stored as a copy; the caller keeps its maps.
	stored, err := fromBoard(board).toBoard()
	if err != nil {
		return err
	}
	s.board = &stored
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (services.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.board == nil {
		return services.Board{}, errs.NewObjectNotFoundError("board", boardKey)
	}
	return fromBoard(*s.board).toBoard()
}

type alertDTO struct {
	OrderID      string    `json:"orderId"`
	SerialNumber string    `json:"serialNumber"`
	CustomerName string    `json:"customerName"`
	Note         string    `json:"note"`
	Timestamp    time.Time `json:"timestamp"`
}

// boardDTO keys counts by role name so a reordered Role enum cannot misread
// an old entry.
type boardDTO struct {
	Counts      map[string]int `json:"counts"`
	DriverTrips map[string]int `json:"driverTrips"`
	Alerts      []alertDTO     `json:"alerts"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

func fromBoard(b services.Board) boardDTO {
	dto := boardDTO{
		Counts:      make(map[string]int, len(b.Counts)),
		DriverTrips: make(map[string]int, len(b.DriverTrips)),
		Alerts:      make([]alertDTO, 0, len(b.Alerts)),
		GeneratedAt: b.GeneratedAt,
	}
	for role, n := range b.Counts {
		dto.Counts[role.String()] = n
	}
	for driver, n := range b.DriverTrips {
		dto.DriverTrips[driver] = n
	}
	for _, a := range b.Alerts {
		dto.Alerts = append(dto.Alerts, alertDTO{
			OrderID:      a.OrderID.String(),
			SerialNumber: a.SerialNumber,
			CustomerName: a.CustomerName,
			Note:         a.Note,
			Timestamp:    a.Timestamp,
		})
	}
	return dto
}

func (dto boardDTO) toBoard() (services.Board, error) {
	b := services.Board{
		Counts:      make(map[kernel.Role]int, len(dto.Counts)),
		DriverTrips: make(map[string]int, len(dto.DriverTrips)),
		Alerts:      make([]services.Alert, 0, len(dto.Alerts)),
		GeneratedAt: dto.GeneratedAt,
	}
	for name, n := range dto.Counts {
		role, err := kernel.ParseRole(name)
		if err != nil {
			return services.Board{}, err
		}
		b.Counts[role] = n
	}
	for driver, n := range dto.DriverTrips {
		b.DriverTrips[driver] = n
	}
	for _, a := range dto.Alerts {
		id, err := kernel.UUIDFromString(a.OrderID)
		if err != nil {
			return services.Board{}, err
		}
		b.Alerts = append(b.Alerts, services.Alert{
			OrderID:      id,
			SerialNumber: a.SerialNumber,
			CustomerName: a.CustomerName,
			Note:         a.Note,
			Timestamp:    a.Timestamp,
		})
	}
	return b, nil
}
