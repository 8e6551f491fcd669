package quotes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"quotescraper/models"
)

type recordingLog struct {
	infos  []string
	errors []string
}

func (l *recordingLog) Info(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLog) Error(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

type memSink struct {
	records []models.StockRecord
	err     error
}

func (s *memSink) Write(rec models.StockRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

const (
	tencentLine = "700 Tencent Holdings HKD 300.00 301.50 305.00 1,200,000"
	tencentNext = "302.00 301.00 298.50 5,000,000"
)

var tencent = models.StockRecord{
	Code: 700, Name: "Tencent Holdings", Currency: "HKD",
	PrevClose: 300, Ask: 301.5, High: 305, SharesTraded: 1200000,
	Closing: 302, Bid: 301, Low: 298.5, Turnover: 5000000,
}

func page(body ...string) []string {
	head := []string{"Market Data", "QUOTATIONS", "index", "QUOTATIONS", "CODE NAME CUR PREV.CLO./ASK/HIGH SHARES TRADED"}
	return append(head, body...)
}

func TestIsWantedLine(t *testing.T) {
	wanted := NewWantedSet(700, 5)
	tests := []struct {
		line string
		want bool
	}{
		{tencentLine, true},
		{"  5 HSBC Holdings HKD 60.00", true},
		{"9988 Alibaba HKD TRADING SUSPENDED", false},
		{"Tencent 700 HKD", false},
		{"", false},
		{"   ", false},
		{"700.0 Tencent HKD", false},
	}
	for _, tt := range tests {
		if got := IsWantedLine(tt.line, wanted); got != tt.want {
			t.Errorf("IsWantedLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestExtractFullRecord(t *testing.T) {
	log := &recordingLog{}
	rec, err := Extract(tencentLine, tencentNext, log)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec != tencent {
		t.Fatalf("Extract = %+v, want %+v", rec, tencent)
	}
	want := []string{"700", "Tencent Holdings", "HKD", "300.0", "302.0", "301.5", "301.0", "305.0", "298.5", "1200000", "5000000"}
	if got := rec.Row(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Row = %v, want %v", got, want)
	}
	if len(log.infos) != 0 {
		t.Fatalf("unexpected diagnostics: %v", log.infos)
	}
}

func TestExtractSuspended(t *testing.T) {
	log := &recordingLog{}
	rec, err := Extract("9988 Alibaba HKD 80.00 TRADING SUSPENDED", "81.00 80.50 79.00 1,000", log)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := models.Suspended(9988, "Alibaba", "HKD"); rec != want {
		t.Fatalf("Extract = %+v, want %+v", rec, want)
	}
	if !rec.IsSuspended() {
		t.Fatal("record not flagged suspended")
	}
	if len(log.infos) != 1 || !strings.Contains(log.infos[0], "9988 is suspended") {
		t.Fatalf("diagnostics = %v", log.infos)
	}
}

func TestExtractMissingFields(t *testing.T) {
	log := &recordingLog{}
	rec, err := Extract("700 Tencent Holdings HKD 300.00 - 305.00 1,200,000", "302.00 301.00", log)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := tencent
	want.Ask = models.Unavailable
	want.Low = models.Unavailable
	want.Turnover = models.Unavailable
	if rec != want {
		t.Fatalf("Extract = %+v, want %+v", rec, want)
	}
	if len(log.infos) != 3 {
		t.Fatalf("got %d missing-data notes, want 3: %v", len(log.infos), log.infos)
	}
	for _, msg := range log.infos {
		if !strings.HasPrefix(msg, "Stock number 700 has missing data") {
			t.Errorf("unexpected diagnostic %q", msg)
		}
	}
}

func TestExtractZeroIsNotMissing(t *testing.T) {
	rec, err := Extract("8 PCCW HKD 0 0.00 0.000 0", "0 0 0 0", nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.PrevClose != 0 || rec.SharesTraded != 0 || rec.Turnover != 0 || rec.Low != 0 {
		t.Fatalf("zero readings became sentinels: %+v", rec)
	}
}

func TestExtractPriceKeepsCommas(t *testing.T) {
	rec, err := Extract("1 CKH HKD 1,234.5 1 1 1", "1 1 1 1", nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.PrevClose != models.Unavailable {
		t.Fatalf("PrevClose = %v, want %v", rec.PrevClose, models.Unavailable)
	}
}

func TestExtractUnknownCurrency(t *testing.T) {
	_, err := Extract("123 Unknown Co XYZ 1 2 3 4", "1 2 3 4", nil)
	var invalid *InvalidStockError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidStockError", err)
	}
	if invalid.Code != 123 {
		t.Fatalf("Code = %d, want 123", invalid.Code)
	}
}

func TestExtractNoCode(t *testing.T) {
	_, err := Extract("Tencent HKD 1 2 3 4", "", nil)
	var invalid *InvalidStockError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want *InvalidStockError", err)
	}
}

func TestExtractIdempotent(t *testing.T) {
	first, err := Extract(tencentLine, tencentNext, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Extract(tencentLine, tencentNext, nil)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("run %d: %+v, want %+v", i, again, first)
		}
	}
}

func TestScanStart(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"two markers", []string{"a", "QUOTATIONS", "b", " QUOTATIONS ", "c"}, 4},
		{"three markers", []string{"QUOTATIONS", "QUOTATIONS", "QUOTATIONS"}, 2},
		{"one marker", []string{"a", "QUOTATIONS", "b"}, 3},
		{"none", []string{"a", "b"}, 2},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScanStart(tt.lines, DefaultMarker); got != tt.want {
				t.Fatalf("ScanStart = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScan(t *testing.T) {
	sink := &memSink{}
	log := &recordingLog{}
	s := &Scanner{Sink: sink, Log: log}
	wanted := NewWantedSet(700, 9988, 123, 42)

	report, err := s.Scan(page(
		tencentLine, tencentNext,
		"9988 Alibaba HKD TRADING SUSPENDED", "whatever",
		"123 Unknown Co XYZ 1 2 3 4", "1.00 2.00 3.00 4",
		"5 HSBC Holdings HKD 60.00 60.10 61.00 100", "60.5 60.4 59.9 6,000",
	), wanted)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []models.StockRecord{tencent, models.Suspended(9988, "Alibaba", "HKD")}
	if !reflect.DeepEqual(sink.records, want) {
		t.Fatalf("records = %+v, want %+v", sink.records, want)
	}
	if !reflect.DeepEqual(report.Written, []int{700, 9988}) {
		t.Errorf("Written = %v", report.Written)
	}
	if !reflect.DeepEqual(report.Suspended, []int{9988}) {
		t.Errorf("Suspended = %v, want [9988]", report.Suspended)
	}
	if !reflect.DeepEqual(report.Failed, []int{123}) {
		t.Errorf("Failed = %v", report.Failed)
	}
	if !reflect.DeepEqual(report.Unresolved, []int{42}) {
		t.Errorf("Unresolved = %v, want [42]", report.Unresolved)
	}
	if !reflect.DeepEqual(wanted.Codes(), []int{42}) {
		t.Errorf("wanted = %v, want [42]", wanted.Codes())
	}
	last := log.errors[len(log.errors)-1]
	if last != "These stocks were not read: 42" {
		t.Errorf("final diagnostic = %q", last)
	}
}

func TestScanStopsWhenAllResolved(t *testing.T) {
	sink := &memSink{}
	wanted := NewWantedSet(700)
	report, err := (&Scanner{Sink: sink}).Scan(page(
		tencentLine, tencentNext,
		"700 Tencent Again HKD 1 1 1 1", "1 1 1 1",
	), wanted)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sink.records) != 1 || sink.records[0] != tencent {
		t.Fatalf("records = %+v", sink.records)
	}
	if report.Unresolved != nil {
		t.Fatalf("Unresolved = %v", report.Unresolved)
	}
}

func TestScanStopsAfterFailureEmptiesSet(t *testing.T) {
	sink := &memSink{}
	wanted := NewWantedSet(123)
	_, err := (&Scanner{Sink: sink}).Scan(page(
		"123 Unknown Co XYZ 1 2 3 4", "1 2 3 4",
		"123 Unknown Co HKD 1 2 3 4", "1 2 3 4",
	), wanted)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("failed code was retried: %+v", sink.records)
	}
}

func TestScanSingleMarker(t *testing.T) {
	sink := &memSink{}
	wanted := NewWantedSet(700)
	report, err := (&Scanner{Sink: sink}).Scan([]string{tencentLine, tencentNext, "QUOTATIONS", tencentLine, tencentNext}, wanted)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("records = %+v, want none", sink.records)
	}
	if !reflect.DeepEqual(report.Unresolved, []int{700}) {
		t.Fatalf("Unresolved = %v, want [700]", report.Unresolved)
	}
}

func TestScanLastLineHasNoSuccessor(t *testing.T) {
	sink := &memSink{}
	_, err := (&Scanner{Sink: sink}).Scan(page(tencentLine), NewWantedSet(700))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("records = %+v", sink.records)
	}
	rec := sink.records[0]
	if rec.High != 305 || rec.Closing != models.Unavailable || rec.Turnover != models.Unavailable {
		t.Fatalf("record = %+v", rec)
	}
}

func TestScanSinkError(t *testing.T) {
	sinkErr := errors.New("disk full")
	_, err := (&Scanner{Sink: &memSink{err: sinkErr}}).Scan(page(tencentLine, tencentNext), NewWantedSet(700))
	if !errors.Is(err, sinkErr) {
		t.Fatalf("err = %v, want %v", err, sinkErr)
	}
}

func TestScanWithoutSink(t *testing.T) {
	wanted := NewWantedSet(700)
	_, err := (&Scanner{}).Scan(page(tencentLine, tencentNext), wanted)
	if !errors.Is(err, ErrNoSink) {
		t.Fatalf("err = %v, want %v", err, ErrNoSink)
	}
	if !wanted.Contains(700) {
		t.Fatal("wanted should be untouched")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\r\nb\nc\rd", []string{"a", "b", "c", "d"}},
		{"a\n", []string{"a"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"\n", []string{""}},
		{"a\r\n\r\n", []string{"a", ""}},
		{"a\vb\fc", []string{"a", "b", "c"}},
		{"a\x1cb\x1dc\x1ed", []string{"a", "b", "c", "d"}},
		{"a\u0085b\u2028c\u2029d", []string{"a", "b", "c", "d"}},
		{"700 Tencent\tHKD", []string{"700 Tencent\tHKD"}},
	}
	for _, tt := range tests {
		if got := SplitLines(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestWantedSet(t *testing.T) {
	w := NewWantedSet(3, 1, 2, 3)
	if w.Len() != 3 {
		t.Fatalf("Len = %d, want 3", w.Len())
	}
	if !w.Remove(2) || w.Remove(2) {
		t.Fatal("Remove should succeed exactly once")
	}
	if got := w.Codes(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("Codes = %v", got)
	}
}
