package ledger

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"

	"github.com/alexedwards/scs/v2"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
)

func init() {
	gob.Register(Record{})
}

// SessionStore keeps records in the operator's scs session, one key per kind.
type SessionStore struct {
	sessionManager *scs.SessionManager
}

func NewSessionStore(sessionManager *scs.SessionManager) *SessionStore {
	return &SessionStore{sessionManager: sessionManager}
}

// SessionKey is the session key holding the record of kind.
func SessionKey(kind puzzle.Kind) string {
	return fmt.Sprintf("botornot-%s-info", kind)
}

func (s *SessionStore) Load(ctx context.Context, kind puzzle.Kind) (record Record, err error) {
	defer recoverSession(&err)
	value := s.sessionManager.Get(ctx, SessionKey(kind))
	if value == nil {
		return Record{}, ErrNotFound
	}
	record, ok := value.(Record)
	if !ok {
		return Record{}, errors.New("unexpected session value type", slog.String("type", fmt.Sprintf("%T", value)))
	}
	return record, nil
}

func (s *SessionStore) Save(ctx context.Context, kind puzzle.Kind, record Record) (err error) {
	defer recoverSession(&err)
	s.sessionManager.Put(ctx, SessionKey(kind), record)
	return nil
}

// recoverSession turns the panic scs raises for a context without session data into an error.
func recoverSession(err *error) {
	if r := recover(); r != nil {
		*err = errors.New("session unavailable", slog.Any("panic", r))
	}
}
