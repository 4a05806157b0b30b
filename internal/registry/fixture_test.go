package registry

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

// fixtureCSV is a slice of the real IEEE MA-L export, plus one truncated row.
const fixtureCSV = `Registry,Assignment,Organization Name,Organization Address
MA-L,000000,XEROX CORPORATION,M/S 105-50C WEBSTER NY US 14580
MA-L,000001,XEROX CORPORATION,ZEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000002,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000003,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000004,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000005,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000006,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000007,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000008,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,000009,XEROX CORPORATION,XEROX SYSTEMS INSTITUTE M/S 105-50C WEBSTER NY US 14580
MA-L,00000C,"Cisco Systems, Inc",80 West Tasman Drive San Jose CA US 94568
MA-L,0000AA,XEROX CORPORATION,M/S 105-50C WEBSTER NY US 14580
MA-L,501AC5,Microsoft,1 Microsoft Way Redmond Washington US 98052
MA-L,709E29,Sony Interactive Entertainment Inc.,  1-7-1 Konan Minato-ku Tokyo JP 108-0075  
MA-L,9C934E,Xerox Corporation,Mail Stop 0214 Webster NY US 14580
MA-L,D8EC5E,Belkin International Inc.,12045 East Waterfront Drive Playa Vista CA US 90094
MA-L,E84DEC,Xerox Corporation,800 Phillips Rd Webster NY US 14580
MA-L,TRUNCATED
`

// fixtureRecords is the number of well-formed rows in fixtureCSV.
const fixtureRecords = 17

// xeroxOUIs are the fixture keys whose organisation contains "xerox".
var xeroxOUIs = []string{
	"000000", "000001", "000002", "000003", "000004", "000005",
	"000006", "000007", "000008", "000009", "0000AA", "9C934E", "E84DEC",
}

// registryServer serves body with status and counts requests.
type registryServer struct {
	*httptest.Server
	hits       atomic.Int32
	userAgents chan string
}

func newRegistryServer(t *testing.T, status int, body string) *registryServer {
	t.Helper()
	rs := &registryServer{userAgents: make(chan string, 16)}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.hits.Add(1)
		select {
		case rs.userAgents <- r.UserAgent():
		default:
		}
		w.WriteHeader(status)
		w.Write([]byte(body)) //nolint:errcheck // test server
	}))
	t.Cleanup(rs.Close)
	return rs
}

func writeSnapshot(t *testing.T, cache CacheState, content string) {
	t.Helper()
	if err := os.MkdirAll(cache.Dir, 0755); err != nil {
		t.Fatalf("creating cache dir: %v", err)
	}
	if err := os.WriteFile(cache.SnapshotPath(), []byte(content), 0644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	m, _, err := ParseCSV(strings.NewReader(fixtureCSV))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	return NewEngine(m, "http://test/oui.csv")
}
