package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/invoice"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/load"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/JaserAkuly/EvolveTMS/internal/infra/memory"
	"github.com/JaserAkuly/EvolveTMS/internal/lifecycle"
	"github.com/JaserAkuly/EvolveTMS/internal/payment"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/auth"
	"github.com/JaserAkuly/EvolveTMS/internal/session"
)

// --- MOCKS ---

type stubVerifier struct {
	users map[string]auth.User
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (auth.User, error) {
	u, ok := s.users[token]
	if !ok {
		return auth.User{}, domainErr.ErrInvalidToken
	}
	return u, nil
}

type stubProcessor struct {
	ev  *payment.NormalizedEvent
	err error
}

func (s *stubProcessor) Provider() string { return "Stripe" }

func (s *stubProcessor) VerifyAndParse(payload []byte, headers map[string]string) (*payment.NormalizedEvent, error) {
	return s.ev, s.err
}

type fixtures struct {
	router    http.Handler
	loads     *memory.LoadStore
	invoices  *memory.InvoiceStore
	processor *stubProcessor

	adminToken   string
	carrierToken string
	viewerToken  string
}

func newTestServer(t *testing.T) *fixtures {
	t.Helper()
	log := zap.NewNop().Sugar()

	verifier := &stubVerifier{users: map[string]auth.User{}}
	profiles := memory.NewProfileStore()
	seedUser := func(token string, role profile.Role) {
		id := uuid.New()
		email := fmt.Sprintf("%s@example.com", role)
		verifier.users[token] = auth.User{ID: id, Email: email}
		profiles.Put(profile.Profile{ID: id, Email: email, Role: role, IsActive: true})
	}
	seedUser("tok-admin", profile.RoleAdmin)
	seedUser("tok-carrier", profile.RoleCarrier)
	seedUser("tok-viewer", profile.RoleViewer)

	registry := session.NewRegistry(verifier, profiles, log,
		session.WithManagerOptions(session.WithBootstrapTimeout(time.Second)))
	t.Cleanup(registry.Close)

	loadStore := memory.NewLoadStore()
	invoiceStore := memory.NewInvoiceStore()
	processor := &stubProcessor{}

	srv := NewServer(Deps{
		Sessions:  registry,
		Loads:     lifecycle.NewService(loadStore, nil, nil, log),
		Carriers:  memory.NewCarrierStore(),
		Shippers:  memory.NewShipperStore(),
		Locations: memory.NewLocationStore(),
		Invoices:  invoiceStore,
		Payments:  payment.NewService(invoiceStore, log),
		Processor: processor,
		Log:       log,
	})

	return &fixtures{
		router:       srv.Router(),
		loads:        loadStore,
		invoices:     invoiceStore,
		processor:    processor,
		adminToken:   "tok-admin",
		carrierToken: "tok-carrier",
		viewerToken:  "tok-viewer",
	}
}

func (f *fixtures) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// --- TESTS ---

func TestGetSessionAnonymous(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/v1/session", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap session.Snapshot
	decodeInto(t, rec, &snap)
	if snap.State != session.StateUnauthenticated || snap.User != nil {
		t.Fatalf("snapshot = %+v, want anonymous", snap)
	}
}

func TestGetSessionAuthenticated(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/v1/session", f.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap session.Snapshot
	decodeInto(t, rec, &snap)
	if snap.Profile == nil || snap.Profile.Role != profile.RoleAdmin {
		t.Fatalf("profile = %+v, want admin", snap.Profile)
	}
}

func TestSignOut(t *testing.T) {
	f := newTestServer(t)
	if rec := f.do(t, http.MethodPost, "/v1/session/signout", f.adminToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	// Signing out twice is fine.
	if rec := f.do(t, http.MethodPost, "/v1/session/signout", f.adminToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("second sign-out status = %d, want 204", rec.Code)
	}
}

func TestLoadsRequireAuth(t *testing.T) {
	f := newTestServer(t)
	if rec := f.do(t, http.MethodGet, "/v1/loads", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/v1/loads", "bogus", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestCreateLoadAdminOnly(t *testing.T) {
	f := newTestServer(t)
	body := map[string]interface{}{"load_number": "L-1001"}

	if rec := f.do(t, http.MethodPost, "/v1/loads", f.carrierToken, body); rec.Code != http.StatusForbidden {
		t.Fatalf("carrier create: status = %d, want 403", rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/v1/loads", f.adminToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created load.Load
	decodeInto(t, rec, &created)
	if created.Status != load.StatusCreated {
		t.Fatalf("status = %s, want created", created.Status)
	}
}

// Client-supplied status is discarded; every load starts at created.
func TestCreateLoadIgnoresClientStatus(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodPost, "/v1/loads", f.adminToken, map[string]interface{}{
		"load_number": "L-1002",
		"status":      "delivered",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created load.Load
	decodeInto(t, rec, &created)
	if created.Status != load.StatusCreated {
		t.Fatalf("status = %s, want created", created.Status)
	}
}

func TestGetLoadNotFound(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/v1/loads/"+uuid.NewString(), f.adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetLoadBadID(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/v1/loads/not-a-uuid", f.adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func createLoad(t *testing.T, f *fixtures, number string) load.Load {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/loads", f.adminToken, map[string]interface{}{"load_number": number})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create load: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var l load.Load
	decodeInto(t, rec, &l)
	return l
}

func transition(t *testing.T, f *fixtures, id uuid.UUID, token, action string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodPost, "/v1/loads/"+id.String()+"/transitions", token,
		map[string]string{"action": action})
}

func TestLifecycleOverHTTP(t *testing.T) {
	f := newTestServer(t)
	l := createLoad(t, f, "L-2001")

	rec := transition(t, f, l.ID, f.adminToken, "tender")
	if rec.Code != http.StatusOK {
		t.Fatalf("tender: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp transitionResponse
	decodeInto(t, rec, &resp)
	if resp.Status != load.StatusTendered {
		t.Fatalf("status = %s, want tendered", resp.Status)
	}

	// A tendered load offers book/decline to the carrier.
	rec = f.do(t, http.MethodGet, "/v1/loads/"+l.ID.String()+"/actions", f.carrierToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("actions: status = %d", rec.Code)
	}
	var actions struct {
		Actions []load.Action `json:"actions"`
	}
	decodeInto(t, rec, &actions)
	if len(actions.Actions) != 2 {
		t.Fatalf("carrier actions = %v, want [book decline]", actions.Actions)
	}

	// Viewers hold no transition authority.
	if rec := transition(t, f, l.ID, f.viewerToken, "book"); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer book: status = %d, want 403", rec.Code)
	}

	if rec := transition(t, f, l.ID, f.carrierToken, "book"); rec.Code != http.StatusOK {
		t.Fatalf("carrier book: status = %d, body %s", rec.Code, rec.Body.String())
	}
	got, err := f.loads.GetLoad(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("GetLoad: %v", err)
	}
	if got.Status != load.StatusBooked {
		t.Fatalf("stored status = %s, want booked", got.Status)
	}
}

func TestTransitionUnknownAction(t *testing.T) {
	f := newTestServer(t)
	l := createLoad(t, f, "L-2002")
	if rec := transition(t, f, l.ID, f.adminToken, "teleport"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTransitionConflict(t *testing.T) {
	f := newTestServer(t)
	l := createLoad(t, f, "L-2003")
	if rec := transition(t, f, l.ID, f.adminToken, "tender"); rec.Code != http.StatusOK {
		t.Fatalf("first tender: status = %d", rec.Code)
	}
	// Tendering a tendered load is not a valid transition.
	if rec := transition(t, f, l.ID, f.adminToken, "tender"); rec.Code != http.StatusConflict {
		t.Fatalf("second tender: status = %d, want 409", rec.Code)
	}
}

func TestDuplicateLoadNumber(t *testing.T) {
	f := newTestServer(t)
	createLoad(t, f, "L-2004")
	rec := f.do(t, http.MethodPost, "/v1/loads", f.adminToken, map[string]interface{}{"load_number": "L-2004"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreateCarrierAdminOnly(t *testing.T) {
	f := newTestServer(t)
	body := map[string]interface{}{"name": "Iron Horse Freight", "mc_number": "MC-123456"}

	if rec := f.do(t, http.MethodPost, "/v1/carriers", f.carrierToken, body); rec.Code != http.StatusForbidden {
		t.Fatalf("carrier role create: status = %d, want 403", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/v1/carriers", f.adminToken, body); rec.Code != http.StatusCreated {
		t.Fatalf("admin create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec := f.do(t, http.MethodGet, "/v1/carriers", f.viewerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
}

func TestListInvoicesBadStatusFilter(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/v1/invoices?status=nonsense", f.adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPaymentWebhookMarksInvoicePaid(t *testing.T) {
	f := newTestServer(t)
	inv, err := f.invoices.CreateInvoice(context.Background(), invoice.Invoice{
		InvoiceNumber: "INV-7001",
		Amount:        2400,
		Status:        invoice.StatusPending,
		IssuedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	f.processor.ev = &payment.NormalizedEvent{
		Provider:          "Stripe",
		ProviderPaymentID: "pi_777",
		InvoiceNumber:     "INV-7001",
		Status:            payment.PaymentSucceeded,
	}

	rec := f.do(t, http.MethodPost, "/v1/webhooks/payment", "", map[string]string{"ignored": "payload"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got, _ := f.invoices.GetInvoice(context.Background(), inv.ID)
	if got.Status != invoice.StatusPaid {
		t.Fatalf("invoice status = %s, want paid", got.Status)
	}
}

func TestPaymentWebhookBadSignature(t *testing.T) {
	f := newTestServer(t)
	f.processor.err = errors.New("signature mismatch")
	rec := f.do(t, http.MethodPost, "/v1/webhooks/payment", "", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
