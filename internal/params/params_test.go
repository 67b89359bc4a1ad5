package params

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
)

func TestForm_Encode(t *testing.T) {
	form := NewForm()
	form.Append("internal_temp;temp", "80")
	form.Append("internal_temp;units", "f")

	body, contentType, err := form.Encode()
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/demo/params", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	if got := req.MultipartForm.Value["internal_temp;temp"]; len(got) != 1 || got[0] != "80" {
		t.Errorf("temp = %v", got)
	}
	if got := req.MultipartForm.Value["internal_temp;units"]; len(got) != 1 || got[0] != "f" {
		t.Errorf("units = %v", got)
	}
}

func TestClient_Resolve(t *testing.T) {
	var gotEntries map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotEntries = r.MultipartForm.Value
		io.WriteString(w, "i_temp=80;f\n")
	}))
	defer srv.Close()

	form := NewForm()
	form.Append("internal_temp;temp", "80")
	form.Append("internal_temp;units", "f")

	qs, err := NewClient(srv.URL).Resolve(context.Background(), form)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if qs != "i_temp=80;f" {
		t.Errorf("Resolve() = %q", qs)
	}
	if len(gotEntries) != 2 {
		t.Errorf("server saw %v", gotEntries)
	}
}

func TestClient_ResolveErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad metric", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Resolve(context.Background(), NewForm())
	if errors.GetExitCode(err) != errors.ExitParamsError {
		t.Errorf("exit code = %d, want params error (%v)", errors.GetExitCode(err), err)
	}

	_, err = NewClient("http://127.0.0.1:1/nothing").Resolve(context.Background(), NewForm())
	if errors.GetExitCode(err) != errors.ExitParamsError {
		t.Errorf("unreachable endpoint exit code = %d", errors.GetExitCode(err))
	}
}

func TestStatic(t *testing.T) {
	s := &Static{Fragment: "m=1"}
	qs, err := s.Resolve(context.Background(), NewForm())
	if err != nil || qs != "m=1" || len(s.Forms) != 1 {
		t.Errorf("Static.Resolve() = %q, %v, forms %d", qs, err, len(s.Forms))
	}
}
