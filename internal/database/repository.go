package database

import (
	"database/sql"
	"fmt"
	"log"
	"unicode/utf8"
)

// UserStore доступ к хранилищу от имени конкретного пользователя.
// Все ключи получают префикс "{user}_". Операции не роняют вызывающего:
// ошибка чтения трактуется как отсутствие значения, ошибка записи
// возвращает false, предупреждение пользователю показывает вызывающий слой.
type UserStore struct {
	Db   *Database
	User string
}

func NewUserStore(db *Database, user string) *UserStore {
	return &UserStore{Db: db, User: user}
}

func (s *UserStore) namespaced(key string) string {
	return fmt.Sprintf("%s_%s", s.User, key)
}

func (s *UserStore) Get(key string) (string, bool) {
	if s.User == "" {
		return "", false
	}
	return s.Db.rawGet(s.namespaced(key))
}

func (s *UserStore) Set(key, value string) bool {
	if s.User == "" {
		return false
	}
	return s.Db.rawSet(s.namespaced(key), value)
}

func (s *UserStore) Remove(key string) bool {
	if s.User == "" {
		return false
	}
	return s.Db.rawRemove(s.namespaced(key))
}

// Keys возвращает ключи пользователя без префикса.
// LIKE не годится: "_" в шаблоне — односимвольный wildcard.
func (s *UserStore) Keys() []string {
	prefix := s.User + "_"
	rows, err := s.Db.db.Query(`
		SELECT key FROM kv WHERE substr(key, 1, ?) = ?
	`, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		log.Printf("⚠️ Ошибка чтения списка ключей: %v", err)
		return nil
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			continue
		}
		keys = append(keys, key[len(prefix):])
	}
	return keys
}

// Session repository methods

// CurrentUser возвращает имя активного пользователя (глобальный ключ)
func (d *Database) CurrentUser() (string, bool) {
	return d.rawGet(KeyCurrentUser)
}

func (d *Database) SetCurrentUser(name string) bool {
	return d.rawSet(KeyCurrentUser, name)
}

// ClearCurrentUser сбрасывает указатель сессии, данные пользователя остаются
func (d *Database) ClearCurrentUser() bool {
	return d.rawRemove(KeyCurrentUser)
}

// Raw key-value methods

func (d *Database) rawGet(key string) (string, bool) {
	var value string
	err := d.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Printf("⚠️ Ошибка чтения ключа %s: %v", key, err)
		return "", false
	}
	return value, true
}

func (d *Database) rawSet(key, value string) bool {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, key, value)
	if err != nil {
		log.Printf("❌ Ошибка записи ключа %s: %v", key, err)
		return false
	}
	return true
}

func (d *Database) rawRemove(key string) bool {
	_, err := d.db.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		log.Printf("⚠️ Ошибка удаления ключа %s: %v", key, err)
		return false
	}
	return true
}
