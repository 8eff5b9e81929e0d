package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/extratofx/extratofx/pkg/banks"
	"github.com/extratofx/extratofx/pkg/config"
	"github.com/extratofx/extratofx/pkg/extractor"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:UTF-8
CHARSET:NONE
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20210401120000
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>c4ef657a-0e49-4b55-8b76-9e1ea6a7a476
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0341
<ACCTID>12345-6
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20210301000000
<DTEND>20210331235959
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>15/03/2021 10:30:00
<TRNAMT>-9.500.00
<FITID>2021031501
<MEMO>Pagamento cartão
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>63592.70
<DTASOF>20210331235959
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	table, err := banks.New()
	if err != nil {
		t.Fatalf("banks.New failed: %v", err)
	}
	ex := extractor.New(table, log.Default())
	return New(&config.Config{}, ex, log.Default())
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("statement", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleProcessAndDownload(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, uploadRequest(t, "marco.ofx", sampleOFX))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Status string `json:"status"`
		File   string `json:"file"`
		Count  int    `json:"count"`
		Rows   []Row  `json:"rows"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if payload.Status != "success" {
		t.Errorf("expected success, got %q", payload.Status)
	}
	if payload.Count != 1 || len(payload.Rows) != 1 {
		t.Fatalf("expected 1 row, got count=%d rows=%d", payload.Count, len(payload.Rows))
	}
	row := payload.Rows[0]
	if row.Date != "15/03/2021" || row.Amount != "9.500,00" || row.Flag != "D" {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.Bank != "Itaú Unibanco S.A." {
		t.Errorf("expected bank name, got %q", row.Bank)
	}
	if !strings.HasPrefix(payload.File, "marco-") || !strings.HasSuffix(payload.File, "-extratofx.csv") {
		t.Errorf("unexpected download name: %q", payload.File)
	}

	// CSV download
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/"+payload.File, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for download, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("expected text/csv, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), "Itaú Unibanco S.A.") {
		t.Errorf("csv body missing bank name: %q", rec.Body.String())
	}

	// XLSX download
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/"+payload.File+"?format=xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for xlsx download, got %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("xlsx download is not a zip container")
	}
}

func TestHandleProcessRejectsBrokenStatement(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, uploadRequest(t, "broken.ofx", "this is not a statement"))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if payload["status"] != "error" {
		t.Errorf("expected error status, got %+v", payload)
	}
}

func TestHandleProcessMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/process", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHandleFilesUnknown(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/nope.csv", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleHome(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "extratofx") {
		t.Error("home page missing product name")
	}
}
