package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheetsServer emulates the three Values calls the sink makes.
type fakeSheetsServer struct {
	header    [][]interface{}
	updates   []sheets.ValueRange
	appends   []sheets.ValueRange
	getCalls  int
	failReads bool
}

func (f *fakeSheetsServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			f.getCalls++
			if f.failReads {
				http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
				return
			}
			json.NewEncoder(w).Encode(sheets.ValueRange{Values: f.header})
		case r.Method == http.MethodPut:
			var vr sheets.ValueRange
			if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
				t.Fatal(err)
			}
			f.updates = append(f.updates, vr)
			f.header = vr.Values
			json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			var vr sheets.ValueRange
			if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
				t.Fatal(err)
			}
			f.appends = append(f.appends, vr)
			json.NewEncoder(w).Encode(sheets.AppendValuesResponse{})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func newTestSheetsSink(t *testing.T, fake *fakeSheetsServer) *SheetsSink {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("create sheets service: %v", err)
	}
	return newSheetsSinkWithService(svc, "sheet_test", nil)
}

func TestSheetsSinkAppendCreatesHeaderOnce(t *testing.T) {
	fake := &fakeSheetsServer{}
	sink := newTestSheetsSink(t, fake)

	if err := sink.Append(context.Background(), testRecord()); err != nil {
		t.Fatal(err)
	}

	if len(fake.updates) != 1 {
		t.Fatalf("expected 1 header write, got %d", len(fake.updates))
	}
	wantHeader := []interface{}{"Name", "Phone", "Intent", "Lead Score", "Message", "Time"}
	gotHeader := fake.updates[0].Values[0]
	for i, col := range wantHeader {
		if gotHeader[i] != col {
			t.Errorf("header[%d] = %v, want %v", i, gotHeader[i], col)
		}
	}

	if len(fake.appends) != 1 {
		t.Fatalf("expected 1 append, got %d", len(fake.appends))
	}
	row := fake.appends[0].Values[0]
	if row[0] != "John" || row[1] != "15550001111" || row[2] != "pricing" || row[3] != "HOT" {
		t.Errorf("unexpected row: %v", row)
	}
	if row[5] != "3/14/2026, 3:09:26 PM" {
		t.Errorf("unexpected time cell: %v", row[5])
	}

	// Second append: header already present, so only the check, no write.
	if err := sink.Append(context.Background(), testRecord()); err != nil {
		t.Fatal(err)
	}
	if len(fake.updates) != 1 {
		t.Fatalf("header written again: %d writes", len(fake.updates))
	}
	if len(fake.appends) != 2 {
		t.Fatalf("expected 2 appends, got %d", len(fake.appends))
	}
	if fake.getCalls != 2 {
		t.Fatalf("expected header check per call, got %d", fake.getCalls)
	}
}

func TestSheetsSinkAppendFailure(t *testing.T) {
	fake := &fakeSheetsServer{failReads: true}
	sink := newTestSheetsSink(t, fake)

	if err := sink.Append(context.Background(), testRecord()); err == nil {
		t.Fatal("expected error when the sheet is unreachable")
	}
}
