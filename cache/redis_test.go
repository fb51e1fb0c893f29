package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestRedisCache_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectGet("test:mykey").SetVal("myvalue")

	value, ok := c.Get("mykey")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if value != "myvalue" {
		t.Errorf("Got %q, want %q", value, "myvalue")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectGet("test:missing").RedisNil()

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected cache miss")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_GetBackendErrorIsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectGet("test:mykey").SetErr(errors.New("connection refused"))

	if _, ok := c.Get("mykey"); ok {
		t.Error("Backend errors should read as misses")
	}
}

func TestRedisCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectSet("test:mykey", "myvalue", 0).SetVal("OK")

	if err := c.Set("mykey", "myvalue"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_SetWithTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(db, 3600, "test:")

	mock.ExpectSet("test:mykey", "myvalue", time.Hour).SetVal("OK")

	if err := c.Set("mykey", "myvalue"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_DefaultKeyPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(db, 0, "")

	mock.ExpectGet("changeling:mykey").SetVal("myvalue")

	if _, ok := c.Get("mykey"); !ok {
		t.Error("Expected hit under the default prefix")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectPing().SetVal("PONG")

	if err := c.Ping(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(RedisConfig{URL: "not-a-url"}); err == nil {
		t.Error("Expected error for malformed URL")
	}
}
