package doctors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/hospital-platform/pkg/logging"
)

type fakeRepo struct {
	doctors []*Doctor
	created *UpsertDoctorRequest
}

func (f *fakeRepo) Create(ctx context.Context, req *UpsertDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.created = req
	return &Doctor{ID: "doc-new", Name: req.Name, Specialization: req.Specialization, Available: req.IsAvailable()}, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Doctor, error) {
	for _, d := range f.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (f *fakeRepo) List(ctx context.Context, onlyAvailable bool) ([]*Doctor, error) {
	if !onlyAvailable {
		return f.doctors, nil
	}
	var out []*Doctor
	for _, d := range f.doctors {
		if d.Available {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, req *UpsertDoctorRequest) (*Doctor, error) {
	d, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d.Name = req.Name
	return d, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	_, err := f.GetByID(ctx, id)
	return err
}

func newTestRouter(repo Repository) http.Handler {
	h := NewHandler(repo, logging.Default())
	r := chi.NewRouter()
	r.Get("/doctors", h.ListAvailable)
	r.Get("/admin/doctors", h.ListAll)
	r.Post("/admin/doctors", h.Create)
	r.Get("/admin/doctors/{doctorID}", h.Get)
	r.Put("/admin/doctors/{doctorID}", h.Update)
	r.Delete("/admin/doctors/{doctorID}", h.Delete)
	return r
}

func TestListAvailable_ExcludesUnavailable(t *testing.T) {
	repo := &fakeRepo{doctors: []*Doctor{
		{ID: "doc-1", Name: "Dr. Adams", Available: true},
		{ID: "doc-2", Name: "Dr. Brown", Available: false},
	}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp ListDoctorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Doctors[0].ID != "doc-1" {
		t.Errorf("unexpected doctor %s in candidate list", resp.Doctors[0].ID)
	}
}

func TestCreate_RejectsMissingFields(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/admin/doctors", strings.NewReader(`{"name": ""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if repo.created != nil {
		t.Error("repository create was reached despite invalid request")
	}
}

func TestCreate_DefaultsToAvailable(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo)

	body := `{"name": "Dr. Chen", "specialization": "Neurology"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/doctors", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var d Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !d.Available {
		t.Error("new doctor should default to available")
	}
}

func TestGet_NotFound(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/admin/doctors/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
