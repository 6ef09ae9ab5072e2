package memory

import (
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"

	"github.com/artealabs/htseg"
)

func TestRedisStore_Lookup_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, "test:")

	mock.ExpectGet("test:en-fr:Hello").SetVal("Bonjour")

	val, ok := s.Lookup("Hello", "en", "fr")
	if !ok {
		t.Error("Expected memory hit")
	}
	if val != "Bonjour" {
		t.Errorf("Expected 'Bonjour', got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Lookup_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, "test:")

	mock.ExpectGet("test:en-fr:Hello").RedisNil()

	val, ok := s.Lookup("Hello", "en", "fr")
	if ok {
		t.Error("Expected memory miss")
	}
	if val != "" {
		t.Errorf("Expected empty string, got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Put(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, "test:")

	mock.ExpectSetNX("test:en-fr:Hello", "Bonjour", 0).SetVal(true)

	if err := s.Put("Hello", "en", "fr", "Bonjour"); err != nil {
		t.Errorf("Put failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

// SETNX returning false means the entry already existed; that is not an
// error under first-writer-wins.
func TestRedisStore_Put_ExistingEntry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, "test:")

	mock.ExpectSetNX("test:en-fr:Hello", "Salut", 0).SetVal(false)

	if err := s.Put("Hello", "en", "fr", "Salut"); err != nil {
		t.Errorf("Put on existing entry should not error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Put_BackendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, "test:")

	mock.ExpectSetNX("test:en-fr:Hello", "Bonjour", 0).SetErr(errors.New("connection refused"))

	err := s.Put("Hello", "en", "fr", "Bonjour")
	if err == nil {
		t.Fatal("Expected MemoryError")
	}

	var memErr *htseg.MemoryError
	if !errors.As(err, &memErr) {
		t.Errorf("Expected MemoryError, got %T: %v", err, err)
	}
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, "")

	mock.ExpectGet("htseg:en-fr:Hello").SetVal("Bonjour")

	if val, ok := s.Lookup("Hello", "en", "fr"); !ok || val != "Bonjour" {
		t.Errorf("Expected default-prefixed hit, got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, "test:")

	mock.ExpectPing().SetVal("PONG")

	if err := s.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Close(t *testing.T) {
	db, mock := redismock.NewClientMock()

	s := NewRedisStoreFromClient(db, "test:")

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	_ = mock // Silence unused warning
}
