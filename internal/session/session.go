// Package session owns the storefront's durable sign-in state: the
// account record and bearer token survive restarts in a local sqlite
// database under two named slots, loaded once at open and cleared
// together on logout.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"partsmarket/internal/model"
)

const (
	slotUser  = "user"
	slotToken = "token"
)

type slot struct {
	Key       string `gorm:"primaryKey;size:32;not null"`
	Value     string
	UpdatedAt time.Time
}

func (slot) TableName() string { return "session_slots" }

// Session is the explicitly owned sign-in context handed to the client
// and views. Safe for concurrent use.
type Session struct {
	db *gorm.DB

	mu    sync.RWMutex
	user  *model.User
	token string
}

// Open connects the session database, migrates the slot table and loads
// whatever sign-in state a previous run left behind. A token whose JWT
// expiry has passed is discarded rather than restored.
func Open(dbPath string) (*Session, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.AutoMigrate(&slot{}); err != nil {
		return nil, fmt.Errorf("migrate session db: %w", err)
	}

	s := &Session{db: db}
	if err := s.load(); err != nil {
		return nil, err
	}
	if s.token != "" && tokenExpired(s.token, time.Now()) {
		if err := s.Clear(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) load() error {
	var slots []slot
	if err := s.db.Find(&slots).Error; err != nil {
		return fmt.Errorf("load session slots: %w", err)
	}
	for _, sl := range slots {
		switch sl.Key {
		case slotToken:
			s.token = sl.Value
		case slotUser:
			var u model.User
			if err := json.Unmarshal([]byte(sl.Value), &u); err != nil {
				// corrupt slot, treat as signed out
				continue
			}
			s.user = &u
		}
	}
	// both slots or neither: a token without an account is unusable
	if s.user == nil || s.token == "" {
		s.user = nil
		s.token = ""
	}
	return nil
}

// SignIn replaces both slots with the server's auth response, in one
// transaction so a crash cannot leave half a session behind.
func (s *Session) SignIn(user *model.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user slot: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, sl := range []slot{
			{Key: slotUser, Value: string(raw), UpdatedAt: time.Now()},
			{Key: slotToken, Value: token, UpdatedAt: time.Now()},
		} {
			if err := tx.Save(&sl).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear removes both slots together (logout).
func (s *Session) Clear() error {
	err := s.db.Where("key IN ?", []string{slotUser, slotToken}).Delete(&slot{}).Error
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token implements client.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Tier() model.Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.TierOf(s.user)
}

func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// tokenExpired reads the exp claim without verifying the signature;
// verification is the server's job, the client only decides whether a
// restored token is worth sending at all. Tokens without exp, or that
// fail to parse, are kept and left for the server to reject.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
