package resellers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/panelops/panelops-backend/pkg/config"
	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/restclient"
)

func newResellerService(t *testing.T, baseURL string) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	rest, err := restclient.New(Source, config.UpstreamConfig{BaseURL: baseURL}, logg)
	if err != nil {
		t.Fatalf("rest client: %v", err)
	}
	return NewService(rest, nil, time.Minute, logg)
}

func TestCreateForwardsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/resellers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body CreateInput
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email != "dist@example.com" {
			t.Errorf("body not forwarded: %+v err=%v", body, err)
		}
		w.Write([]byte(`{"id":"rs_1","name":"Distribuidora Sur","status":"pending"}`))
	}))
	defer srv.Close()

	reseller, err := newResellerService(t, srv.URL).Create(context.Background(), CreateInput{
		Name:           "Distribuidora Sur",
		Email:          "dist@example.com",
		CommissionRate: 12.5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if reseller.ID != "rs_1" || reseller.Status != "pending" {
		t.Fatalf("unexpected reseller %+v", reseller)
	}
}

func TestApprovePostsLifecycleAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resellers/rs_1/approve" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"rs_1","status":"active"}`))
	}))
	defer srv.Close()

	reseller, err := newResellerService(t, srv.URL).Approve(context.Background(), "rs_1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if reseller.Status != "active" {
		t.Fatalf("unexpected reseller %+v", reseller)
	}
}

func TestCreateVoucherMapsStateConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"reseller is suspended"}`))
	}))
	defer srv.Close()

	_, err := newResellerService(t, srv.URL).CreateVoucher(context.Background(), "rs_1", VoucherInput{
		Code:       "INVIERNO20",
		Percentage: 20,
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
}

func TestSuspendRejectsEmptyID(t *testing.T) {
	_, err := newResellerService(t, "http://localhost:0").Suspend(context.Background(), "")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
