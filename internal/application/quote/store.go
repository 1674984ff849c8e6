package quote

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Orcamentos-api/internal/domain"
	engine "github.com/jhoicas/Orcamentos-api/internal/domain/quote"
	"github.com/jhoicas/Orcamentos-api/pkg/logger"
)

// session un borrador y la instantánea de catálogo con la que se edita.
type session struct {
	draft   *engine.Draft
	catalog *engine.Catalog
}

// DraftStore guarda las sesiones de edición en memoria, indexadas por id de borrador.
// Las sesiones inactivas más allá del TTL se eliminan con Sweep (o Run).
type DraftStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	log      *logger.Logger
}

// NewDraftStore construye el store.
func NewDraftStore(ttl time.Duration, log *logger.Logger) *DraftStore {
	return &DraftStore{sessions: make(map[string]*session), ttl: ttl, log: log}
}

func (s *DraftStore) put(sess *session) {
	s.mu.Lock()
	s.sessions[sess.draft.ID()] = sess
	s.mu.Unlock()
}

// get devuelve la sesión si existe y pertenece a la empresa.
func (s *DraftStore) get(companyID, draftID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[draftID]
	s.mu.RUnlock()
	if !ok || sess.draft.CompanyID() != companyID {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

func (s *DraftStore) delete(draftID string) {
	s.mu.Lock()
	delete(s.sessions, draftID)
	s.mu.Unlock()
}

// Len cantidad de sesiones vivas.
func (s *DraftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep elimina las sesiones cuya última actividad es anterior a now-ttl y devuelve
// cuántas eliminó. Los borradores abiertos se descartan antes de soltarlos.
// La selección se hace bajo RLock; el Lock solo cubre el borrado, re-verificando
// que la sesión siga siendo la misma y siga inactiva.
func (s *DraftStore) Sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	s.mu.RLock()
	candidates := make(map[string]*session)
	for id, sess := range s.sessions {
		if sess.draft.TouchedAt().Before(cutoff) {
			candidates[id] = sess
		}
	}
	s.mu.RUnlock()
	if len(candidates) == 0 {
		return 0
	}

	var expired []*session
	s.mu.Lock()
	for id, sess := range candidates {
		if s.sessions[id] == sess && sess.draft.TouchedAt().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		_ = sess.draft.Discard()
	}
	return len(expired)
}

// Run ejecuta Sweep cada interval hasta que ctx se cancele.
func (s *DraftStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 && s.log != nil {
				s.log.Info().Int("expired", n).Int("active", s.Len()).Msg("borradores inactivos descartados")
			}
		}
	}
}
