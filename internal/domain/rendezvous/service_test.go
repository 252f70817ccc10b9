package rendezvous

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
)

// -- Mock Repository --

type mockRepo struct {
	store map[uuid.UUID]*RendezVous
	seq   int
	order map[uuid.UUID]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		store: make(map[uuid.UUID]*RendezVous),
		order: make(map[uuid.UUID]int),
	}
}

func (m *mockRepo) Create(_ context.Context, rdv *RendezVous) error {
	rdv.ID = uuid.New()
	now := time.Now()
	rdv.CreatedAt = now
	rdv.UpdatedAt = now
	m.seq++
	m.order[rdv.ID] = m.seq
	m.store[rdv.ID] = rdv
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*RendezVous, error) {
	rdv, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("rendez-vous %s introuvable", id)
	}
	return rdv, nil
}

func (m *mockRepo) GetByLegacyID(_ context.Context, legacyID string) (*RendezVous, error) {
	for _, rdv := range m.store {
		if rdv.LegacyID != nil && *rdv.LegacyID == legacyID {
			return rdv, nil
		}
	}
	return nil, apperr.NotFound("rendez-vous %s introuvable", legacyID)
}

func (m *mockRepo) Update(_ context.Context, rdv *RendezVous) error {
	if _, ok := m.store[rdv.ID]; !ok {
		return apperr.NotFound("rendez-vous %s introuvable", rdv.ID)
	}
	rdv.UpdatedAt = time.Now()
	m.store[rdv.ID] = rdv
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return apperr.NotFound("rendez-vous %s introuvable", id)
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) matches(rdv *RendezVous, f Filter) bool {
	if f.Statut != "" && rdv.Statut != f.Statut {
		return false
	}
	if f.Type != "" && rdv.Type != f.Type {
		return false
	}
	if f.Lieu != "" && rdv.Lieu != f.Lieu {
		return false
	}
	if f.ProgrammeID != nil && rdv.ProgrammeID != *f.ProgrammeID {
		return false
	}
	if f.DateDebut != "" && rdv.Date < f.DateDebut {
		return false
	}
	if f.DateFin != "" && rdv.Date > f.DateFin {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		hay := strings.ToLower(rdv.Client.Nom + " " + rdv.Client.Prenom + " " +
			rdv.Client.Email + " " + rdv.ProgrammeTitre)
		if !strings.Contains(hay, term) {
			return false
		}
	}
	return true
}

func (m *mockRepo) ListAll(_ context.Context, f Filter) ([]*RendezVous, error) {
	var items []*RendezVous
	for _, rdv := range m.store {
		if m.matches(rdv, f) {
			items = append(items, rdv)
		}
	}
	// Newest first, like the pg repository.
	sort.Slice(items, func(i, j int) bool {
		return m.order[items[i].ID] > m.order[items[j].ID]
	})
	return items, nil
}

func (m *mockRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*RendezVous, int, error) {
	items, _ := m.ListAll(ctx, f)
	total := len(items)
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, total, nil
}

// -- Fake programme resolver --

type fakeResolver struct {
	titres map[uuid.UUID]string
}

func (f *fakeResolver) TitreByID(_ context.Context, id uuid.UUID) (string, error) {
	titre, ok := f.titres[id]
	if !ok {
		return "", apperr.NotFound("programme %s introuvable", id)
	}
	return titre, nil
}

func newTestService() (*Service, *mockRepo, uuid.UUID) {
	repo := newMockRepo()
	progID := uuid.New()
	resolver := &fakeResolver{titres: map[uuid.UUID]string{
		progID: "Créer son site WordPress",
	}}
	return NewService(repo, resolver), repo, progID
}

func validInput(progID uuid.UUID) *RendezVous {
	return &RendezVous{
		ProgrammeID: progID,
		Client:      Client{Nom: "Dupont", Prenom: "Marie", Email: "marie.dupont@example.com"},
		Type:        TypePositionnement,
		Date:        "2025-03-01",
		Heure:       "10:00",
		Lieu:        LieuDistanciel,
	}
}

// -- Create --

func TestCreate_Defaults(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	rdv.RappelEnvoye = true // caller cannot preset the reminder flag

	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdv.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
	if rdv.Statut != StatutEnAttente {
		t.Errorf("expected default statut enAttente, got %s", rdv.Statut)
	}
	if rdv.RappelEnvoye {
		t.Error("expected rappelEnvoye to be reset to false at creation")
	}
	if rdv.ProgrammeTitre != "Créer son site WordPress" {
		t.Errorf("expected resolved programme titre, got %q", rdv.ProgrammeTitre)
	}
}

func TestCreate_MissingProgrammeID(t *testing.T) {
	svc, repo, progID := newTestService()
	rdv := validInput(progID)
	rdv.ProgrammeID = uuid.Nil

	err := svc.Create(context.Background(), rdv)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.store) != 0 {
		t.Error("no record should be persisted on validation failure")
	}
}

func TestCreate_MissingClientOrType(t *testing.T) {
	svc, _, progID := newTestService()

	rdv := validInput(progID)
	rdv.Client.Nom = ""
	if err := svc.Create(context.Background(), rdv); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for missing nom, got %v", err)
	}

	rdv = validInput(progID)
	rdv.Type = ""
	if err := svc.Create(context.Background(), rdv); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for missing type, got %v", err)
	}
}

func TestCreate_MalformedEmail(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	rdv.Client.Email = "not-an-email"

	if err := svc.Create(context.Background(), rdv); !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_TruncatesDateTime(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	rdv.Date = "2025-03-01T10:00:00Z"

	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdv.Date != "2025-03-01" {
		t.Errorf("expected date truncated to 2025-03-01, got %s", rdv.Date)
	}
}

func TestCreate_InvalidStatut(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	rdv.Statut = "inconnu"

	if err := svc.Create(context.Background(), rdv); !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_UnresolvedProgrammeGetsPlaceholder(t *testing.T) {
	svc, _, _ := newTestService()
	rdv := validInput(uuid.New()) // unknown to the resolver

	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdv.ProgrammeTitre != ProgrammeTitrePlaceholder {
		t.Errorf("expected placeholder titre, got %q", rdv.ProgrammeTitre)
	}
}

// -- Get (dual lookup) --

func TestGet_RoundTrip(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), rdv.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Client != rdv.Client || got.Type != rdv.Type || got.Date != rdv.Date {
		t.Error("round-tripped record differs from created record")
	}
	if got.Statut != StatutEnAttente || got.RappelEnvoye {
		t.Error("expected defaults on round-tripped record")
	}
}

func TestGet_LegacyIDFallback(t *testing.T) {
	svc, _, progID := newTestService()
	legacy := "rdv-legacy-001"
	rdv := validInput(progID)
	rdv.LegacyID = &legacy
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), "rdv-legacy-001")
	if err != nil {
		t.Fatalf("expected legacy lookup to succeed: %v", err)
	}
	if got.ID != rdv.ID {
		t.Error("legacy lookup returned wrong record")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Get(context.Background(), uuid.New().String())
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
	_, err = svc.Get(context.Background(), "no-such-legacy-id")
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not-found for legacy miss, got %v", err)
	}
}

// -- Update --

func TestUpdate_PartialMerge(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	rdv.Lieu = LieuPresentiel
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := *rdv

	lieu := LieuDistanciel
	got, err := svc.Update(context.Background(), rdv.ID.String(), &Patch{Lieu: &lieu})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lieu != LieuDistanciel {
		t.Errorf("expected lieu distanciel, got %s", got.Lieu)
	}
	if got.Client != before.Client || got.Type != before.Type || got.Date != before.Date {
		t.Error("partial update must not touch unrelated fields")
	}
	if !got.UpdatedAt.After(before.UpdatedAt) {
		t.Error("expected updatedAt to be refreshed")
	}
}

func TestUpdate_NormalizesPatchedDate(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date := "2025-04-15T09:30:00+02:00"
	got, err := svc.Update(context.Background(), rdv.ID.String(), &Patch{Date: &date})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2025-04-15" {
		t.Errorf("expected normalized date, got %s", got.Date)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	statut := StatutConfirme
	_, err := svc.Update(context.Background(), uuid.New().String(), &Patch{Statut: &statut})
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestUpdate_PermissiveStatutTransitions(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Even "terminal" statuses accept further transitions.
	for _, statut := range []string{StatutTermine, StatutEnAttente, StatutAnnule, StatutReporte} {
		s := statut
		if _, err := svc.Update(context.Background(), rdv.ID.String(), &Patch{Statut: &s}); err != nil {
			t.Fatalf("transition to %s rejected: %v", statut, err)
		}
	}
}

// -- Delete --

func TestDelete_Idempotence(t *testing.T) {
	svc, _, progID := newTestService()
	rdv := validInput(progID)
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), rdv.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// First and second retry both report not-found.
	for i := 0; i < 2; i++ {
		if err := svc.Delete(context.Background(), rdv.ID.String()); !apperr.IsNotFound(err) {
			t.Errorf("attempt %d: expected not-found, got %v", i+1, err)
		}
	}
}

// -- List --

func seedForList(t *testing.T, svc *Service, progID uuid.UUID) {
	t.Helper()
	specs := []struct {
		nom, statut, lieu string
	}{
		{"Dupont", StatutEnAttente, LieuPresentiel},
		{"Martin", StatutConfirme, LieuDistanciel},
		{"Bernard", StatutConfirme, LieuPresentiel},
		{"Petit", StatutAnnule, LieuTelephone},
	}
	for _, sp := range specs {
		rdv := validInput(progID)
		rdv.Client.Nom = sp.nom
		rdv.Client.Email = strings.ToLower(sp.nom) + "@example.com"
		rdv.Lieu = sp.lieu
		statut := sp.statut
		if err := svc.Create(context.Background(), rdv); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := svc.Update(context.Background(), rdv.ID.String(), &Patch{Statut: &statut}); err != nil {
			t.Fatalf("seed statut: %v", err)
		}
	}
}

func TestList_MonotonicNarrowing(t *testing.T) {
	svc, _, progID := newTestService()
	seedForList(t, svc, progID)

	_, all, err := svc.List(context.Background(), Filter{}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, confirmed, err := svc.List(context.Background(), Filter{Statut: StatutConfirme}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, narrower, err := svc.List(context.Background(),
		Filter{Statut: StatutConfirme, Lieu: LieuPresentiel}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if confirmed > all || narrower > confirmed {
		t.Errorf("adding filters must never grow the result: %d, %d, %d", all, confirmed, narrower)
	}
	if confirmed != 2 || narrower != 1 {
		t.Errorf("expected 2 confirmed and 1 confirmed+presentiel, got %d and %d", confirmed, narrower)
	}
}

func TestList_SearchMatchesCaseInsensitive(t *testing.T) {
	svc, _, progID := newTestService()
	seedForList(t, svc, progID)

	items, total, err := svc.List(context.Background(), Filter{Search: "dupont"}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected exactly one match for 'dupont', got %d", total)
	}
	if items[0].Client.Nom != "Dupont" {
		t.Errorf("wrong record matched: %s", items[0].Client.Nom)
	}

	// The term also matches through the email field alone.
	_, total, err = svc.List(context.Background(), Filter{Search: "martin@example.com"}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected exactly one email match, got %d", total)
	}

	_, total, err = svc.List(context.Background(), Filter{Search: "zzz-no-match"}, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("expected no matches, got %d", total)
	}
}

func TestStatsFor_FilteredSet(t *testing.T) {
	svc, _, progID := newTestService()
	seedForList(t, svc, progID)

	stats, err := svc.StatsFor(context.Background(), Filter{Statut: StatutConfirme})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 2 || stats.Confirmes != 2 {
		t.Errorf("expected 2 confirmed in filtered stats, got %+v", stats)
	}
}
