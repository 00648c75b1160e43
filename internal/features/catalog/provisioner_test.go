package catalog

import (
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestReportSeed(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	reportSeed(KindSymbols, 7)
	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.InfoLevel || entry.Message != "Каталог засеян стартовым набором" {
		t.Fatalf("unexpected entry for inserted rows: got=%+v", entry)
	}
	if entry.Data["rows"] != int64(7) {
		t.Fatalf("unexpected rows field: got=%v want=7", entry.Data["rows"])
	}

	hook.Reset()
	reportSeed(KindSymbols, 0)
	entry = hook.LastEntry()
	if entry == nil || entry.Level != log.WarnLevel {
		t.Fatalf("nothing inserted must not be logged as seeded: got=%+v", entry)
	}
	for _, e := range hook.AllEntries() {
		if e.Message == "Каталог засеян стартовым набором" {
			t.Fatalf("seed reported without inserted rows")
		}
	}
}
