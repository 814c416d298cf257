package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/campusmap/internal/adapters/http"
	"github.com/samirrijal/campusmap/internal/adapters/memory"
	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/usecases"
)

// ---- Test helpers ----

var testView = domain.MapView{
	Center:          domain.GeoPoint{Lat: 19.24914, Lon: -103.69740},
	Zoom:            16,
	FocusZoom:       18,
	HighlightRadius: 30,
}

// stepClock hands out distinct, increasing timestamps for generated ids.
func stepClock() func() time.Time {
	t := time.UnixMilli(1700000000000)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func makeDeps(t *testing.T) (*handler.Dependencies, *memory.Slots) {
	t.Helper()
	slots := memory.New()
	store := usecases.NewPlaceStore(slots, "").WithClock(stepClock())
	reconciler := usecases.NewReconciler(slots, store, domain.DefaultSeedSet(), nil, "")
	svc := usecases.NewPlaceService(store, reconciler, testView, nil)
	if _, err := svc.Launch(context.Background()); err != nil {
		t.Fatalf("launch: %v", err)
	}
	return &handler.Dependencies{Places: svc, Slots: slots, Backend: "memory"}, slots
}

func setupApp(t *testing.T) (*fiber.App, *memory.Slots) {
	t.Helper()
	deps, slots := makeDeps(t)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app, slots
}

func do(t *testing.T, app *fiber.App, method, target, body string) *httptestResponse {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return &httptestResponse{Status: resp.StatusCode, Header: resp.Header.Get, Body: b}
}

type httptestResponse struct {
	Status int
	Header func(string) string
	Body   []byte
}

func (r *httptestResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode %s: %v", r.Body, err)
	}
}

type placePage struct {
	Data       []domain.Place `json:"data"`
	Pagination struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
		Total  int `json:"total"`
	} `json:"pagination"`
}

type apiError struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
}

// ---- Place handler tests ----

func TestListPlaces_AfterLaunch(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "GET", "/v1/places", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var page placePage
	resp.decode(t, &page)
	if page.Pagination.Total != 20 {
		t.Errorf("expected total 20, got %d", page.Pagination.Total)
	}
	if len(page.Data) != 20 || page.Data[0].ID != 1001 || page.Data[19].ID != 1020 {
		t.Errorf("expected seeds 1001..1020 in order, got %d places", len(page.Data))
	}
}

func TestListPlaces_Filter(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "GET", "/v1/places?q=%20BIBLIO%20", "")
	var page placePage
	resp.decode(t, &page)
	if len(page.Data) != 1 || page.Data[0].ID != 1006 {
		t.Fatalf("expected only 1006, got %+v", page.Data)
	}

	resp = do(t, app, "GET", "/v1/places?q=facultad", "")
	resp.decode(t, &page)
	if page.Pagination.Total != 8 {
		t.Errorf("expected 8 faculties, got %d", page.Pagination.Total)
	}
}

func TestListPlaces_Pagination(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "GET", "/v1/places?offset=18&limit=5", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var page placePage
	resp.decode(t, &page)
	if page.Pagination.Total != 20 || page.Pagination.Offset != 18 {
		t.Errorf("unexpected pagination %+v", page.Pagination)
	}
	if len(page.Data) != 2 {
		t.Errorf("expected 2 places in page, got %d", len(page.Data))
	}
	if link := resp.Header("Link"); !strings.Contains(link, `rel="prev"`) || strings.Contains(link, `rel="next"`) {
		t.Errorf("unexpected Link header %q", link)
	}
}

func TestListPlaces_QueryTooLong(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "GET", "/v1/places?q="+strings.Repeat("a", 201), "")
	if resp.Status != 400 {
		t.Fatalf("expected 400, got %d", resp.Status)
	}
}

func TestListPlaces_CorruptData(t *testing.T) {
	app, slots := setupApp(t)
	if err := slots.Set(context.Background(), usecases.DefaultPlacesKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	resp := do(t, app, "GET", "/v1/places", "")
	if resp.Status != 500 {
		t.Fatalf("expected 500, got %d", resp.Status)
	}
	var e apiError
	resp.decode(t, &e)
	if e.Code != "corrupt_data" {
		t.Errorf("expected corrupt_data, got %s", e.Code)
	}
}

func TestCreatePlace_Success(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "POST", "/v1/places", `{"title":" Cafetería Norte ","latitude":"19.25","longitude":"-103.70"}`)
	if resp.Status != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.Status, resp.Body)
	}
	var p domain.Place
	resp.decode(t, &p)
	if p.Title != "Cafetería Norte" || p.IsSeed() {
		t.Errorf("unexpected place %+v", p)
	}
	if loc := resp.Header("Location"); !strings.HasSuffix(loc, "/v1/places/"+jsonID(p.ID)) {
		t.Errorf("unexpected Location %q", loc)
	}

	var page placePage
	do(t, app, "GET", "/v1/places", "").decode(t, &page)
	if page.Pagination.Total != 21 || page.Data[20].ID != p.ID {
		t.Errorf("expected new place appended after seeds, got total %d", page.Pagination.Total)
	}
}

func TestCreatePlace_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty title", `{"title":"","latitude":"19.25","longitude":"-103.70"}`, 400},
		{"blank latitude", `{"title":"X","latitude":"  ","longitude":"-103.70"}`, 400},
		{"non-numeric", `{"title":"X","latitude":"abc","longitude":"-103.70"}`, 400},
		{"out of range", `{"title":"X","latitude":"91","longitude":"-103.70"}`, 400},
		{"malformed json", `{"title":`, 400},
	}

	app, _ := setupApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, "POST", "/v1/places", tt.body)
			if resp.Status != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, resp.Status, resp.Body)
			}
		})
	}

	var page placePage
	do(t, app, "GET", "/v1/places", "").decode(t, &page)
	if page.Pagination.Total != 20 {
		t.Errorf("rejected input must not be stored, got %d places", page.Pagination.Total)
	}
}

func TestGetPlace(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "GET", "/v1/places/1001", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var p domain.Place
	resp.decode(t, &p)
	if p.Title != "Facultad de Telemática" {
		t.Errorf("unexpected title %q", p.Title)
	}

	if resp := do(t, app, "GET", "/v1/places/42", ""); resp.Status != 404 {
		t.Errorf("expected 404, got %d", resp.Status)
	}
	if resp := do(t, app, "GET", "/v1/places/abc", ""); resp.Status != 400 {
		t.Errorf("expected 400, got %d", resp.Status)
	}
}

func TestUpdatePlace(t *testing.T) {
	app, _ := setupApp(t)

	var created domain.Place
	do(t, app, "POST", "/v1/places", `{"title":"Parada","latitude":"19.2","longitude":"-103.7"}`).decode(t, &created)

	resp := do(t, app, "PUT", "/v1/places/"+jsonID(created.ID), `{"title":"Parada Sur","latitude":"19.21","longitude":"-103.71"}`)
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Status, resp.Body)
	}
	var got domain.Place
	do(t, app, "GET", "/v1/places/"+jsonID(created.ID), "").decode(t, &got)
	want := domain.Place{ID: created.ID, Title: "Parada Sur", Latitude: 19.21, Longitude: -103.71}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if resp := do(t, app, "PUT", "/v1/places/42", `{"title":"X","latitude":"1","longitude":"1"}`); resp.Status != 404 {
		t.Errorf("expected 404 for unknown id, got %d", resp.Status)
	}
}

func TestDeletePlace_Idempotent(t *testing.T) {
	app, _ := setupApp(t)

	for i := 0; i < 2; i++ {
		if resp := do(t, app, "DELETE", "/v1/places/1006", ""); resp.Status != 204 {
			t.Fatalf("delete #%d: expected 204, got %d", i+1, resp.Status)
		}
	}
	if resp := do(t, app, "GET", "/v1/places/1006", ""); resp.Status != 404 {
		t.Errorf("expected 404 after delete, got %d", resp.Status)
	}

	// The next reconciliation restores the seed.
	if resp := do(t, app, "POST", "/v1/seeds/reconcile", ""); resp.Status != 200 {
		t.Fatalf("reconcile: expected 200, got %d", resp.Status)
	}
	if resp := do(t, app, "GET", "/v1/places/1006", ""); resp.Status != 200 {
		t.Errorf("expected seed restored, got %d", resp.Status)
	}
}

func TestNearbyPlaces(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "GET", "/v1/places/nearby?lat=19.247286485775675&lon=-103.69754462336094&radius=50", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var nearby []usecases.NearbyPlace
	resp.decode(t, &nearby)
	if len(nearby) == 0 || nearby[0].ID != 1006 {
		t.Fatalf("expected 1006 first, got %+v", nearby)
	}

	if resp := do(t, app, "GET", "/v1/places/nearby", ""); resp.Status != 400 {
		t.Errorf("expected 400 without lat/lon, got %d", resp.Status)
	}
	if resp := do(t, app, "GET", "/v1/places/nearby?lat=19&lon=-103&radius=50000", ""); resp.Status != 400 {
		t.Errorf("expected 400 for large radius, got %d", resp.Status)
	}
}

// ---- Selection handler tests ----

type selection struct {
	Index     int               `json:"index"`
	Highlight *domain.Highlight `json:"highlight"`
}

func TestSelection(t *testing.T) {
	app, _ := setupApp(t)

	var sel selection
	do(t, app, "GET", "/v1/selection", "").decode(t, &sel)
	if sel.Index != 0 || sel.Highlight == nil || sel.Highlight.PlaceID != 1001 {
		t.Fatalf("expected first row selected after launch, got %+v", sel)
	}

	resp := do(t, app, "PUT", "/v1/selection", `{"id":1010}`)
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	resp.decode(t, &sel)
	if sel.Index != 9 || sel.Highlight.Radius != 30 || sel.Highlight.Zoom != 18 {
		t.Errorf("unexpected selection %+v", sel)
	}

	resp = do(t, app, "PUT", "/v1/selection", `{"lat":19.249643986414963,"lon":-103.69895211377904}`)
	resp.decode(t, &sel)
	if sel.Highlight == nil || sel.Highlight.PlaceID != 1011 {
		t.Errorf("expected marker tap to select 1011, got %+v", sel)
	}

	if resp := do(t, app, "PUT", "/v1/selection", `{"id":42}`); resp.Status != 404 {
		t.Errorf("expected 404, got %d", resp.Status)
	}
	if resp := do(t, app, "PUT", "/v1/selection", `{}`); resp.Status != 400 {
		t.Errorf("expected 400, got %d", resp.Status)
	}
}

func TestSelection_EmptyFilter(t *testing.T) {
	app, _ := setupApp(t)

	do(t, app, "GET", "/v1/places?q=zzz", "")
	var sel selection
	do(t, app, "GET", "/v1/selection", "").decode(t, &sel)
	if sel.Index != -1 || sel.Highlight != nil {
		t.Errorf("expected no selection for empty list, got %+v", sel)
	}
}

// ---- Misc ----

func TestMapView(t *testing.T) {
	app, _ := setupApp(t)

	var v domain.MapView
	do(t, app, "GET", "/v1/map", "").decode(t, &v)
	if v != testView {
		t.Errorf("got %+v, want %+v", v, testView)
	}
}

func TestReconcile_NotFirstRun(t *testing.T) {
	app, _ := setupApp(t)

	var result usecases.ReconcileResult
	do(t, app, "POST", "/v1/seeds/reconcile", "").decode(t, &result)
	if result.FirstRun || result.Notice != nil {
		t.Errorf("second reconciliation must not notify, got %+v", result)
	}
	if len(result.Places) != 20 {
		t.Errorf("expected 20 places, got %d", len(result.Places))
	}
}

func TestHealthAndReady(t *testing.T) {
	app, _ := setupApp(t)

	if resp := do(t, app, "GET", "/v1/health", ""); resp.Status != 200 {
		t.Errorf("health: expected 200, got %d", resp.Status)
	}
	resp := do(t, app, "GET", "/v1/ready", "")
	if resp.Status != 200 {
		t.Fatalf("ready: expected 200, got %d: %s", resp.Status, resp.Body)
	}
	var body struct {
		Checks map[string]string `json:"checks"`
	}
	resp.decode(t, &body)
	if body.Checks["store"] != "ok" || body.Checks["backend"] != "memory" {
		t.Errorf("unexpected checks %v", body.Checks)
	}
}

func TestSecurityHeaders(t *testing.T) {
	app, _ := setupApp(t)

	resp := do(t, app, "GET", "/v1/map", "")
	if resp.Header("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if resp.Header("ETag") == "" {
		t.Error("missing ETag")
	}
	if cc := do(t, app, "GET", "/v1/places", "").Header("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected no-cache on places, got %q", cc)
	}
}

// ---- GraphQL ----

func TestGraphQL_PlacesAndMutations(t *testing.T) {
	app, _ := setupApp(t)

	var out struct {
		Data struct {
			Places []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				Seed  bool   `json:"seed"`
			} `json:"places"`
		} `json:"data"`
	}
	do(t, app, "POST", "/graphql", `{"query":"{ places(query: \"rector\") { id title seed } }"}`).decode(t, &out)
	if len(out.Data.Places) != 1 || out.Data.Places[0].ID != "1002" || !out.Data.Places[0].Seed {
		t.Fatalf("unexpected places %+v", out.Data.Places)
	}

	var added struct {
		Data struct {
			AddPlace struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"addPlace"`
		} `json:"data"`
	}
	do(t, app, "POST", "/graphql", `{"query":"mutation { addPlace(title: \"Kiosko\", latitude: 19.25, longitude: -103.7) { id title } }"}`).decode(t, &added)
	if added.Data.AddPlace.Title != "Kiosko" || added.Data.AddPlace.ID == "" {
		t.Fatalf("unexpected addPlace result %+v", added)
	}

	var deleted struct {
		Data struct {
			DeletePlace bool `json:"deletePlace"`
		} `json:"data"`
	}
	body := `{"query":"mutation($id: ID!) { deletePlace(id: $id) }","variables":{"id":"` + added.Data.AddPlace.ID + `"}}`
	do(t, app, "POST", "/graphql", body).decode(t, &deleted)
	if !deleted.Data.DeletePlace {
		t.Error("expected deletePlace to report true")
	}
	do(t, app, "POST", "/graphql", body).decode(t, &deleted)
	if deleted.Data.DeletePlace {
		t.Error("expected second deletePlace to report false")
	}
}

func TestGraphQL_AddPlaceWithID(t *testing.T) {
	app, _ := setupApp(t)

	type addResult struct {
		Data struct {
			AddPlace *struct {
				ID string `json:"id"`
			} `json:"addPlace"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	var reserved addResult
	do(t, app, "POST", "/graphql", `{"query":"mutation { addPlace(id: \"1005\", title: \"Fake\", latitude: 1, longitude: 1) { id } }"}`).decode(t, &reserved)
	if len(reserved.Errors) == 0 || reserved.Data.AddPlace != nil {
		t.Fatalf("expected reserved id to be rejected, got %+v", reserved)
	}

	var explicit addResult
	do(t, app, "POST", "/graphql", `{"query":"mutation { addPlace(id: \"42\", title: \"Kiosko\", latitude: 19.25, longitude: -103.7) { id } }"}`).decode(t, &explicit)
	if len(explicit.Errors) != 0 || explicit.Data.AddPlace == nil || explicit.Data.AddPlace.ID != "42" {
		t.Fatalf("expected explicit id to be kept, got %+v", explicit)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
