package discovery

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/mdns"
)

func TestNewService(t *testing.T) {
	service, err := newService(8080, []net.IP{net.IPv4(192, 0, 2, 10)})
	if err != nil {
		t.Fatal(err)
	}
	if service.Service != ServiceType || service.Port != 8080 {
		t.Errorf("service = %s:%d", service.Service, service.Port)
	}
	if len(service.TXT) != 1 || service.TXT[0] != "planer" {
		t.Errorf("txt = %v", service.TXT)
	}
}

func TestNewServiceRejectsBadPort(t *testing.T) {
	if _, err := newService(0, []net.IP{net.IPv4(192, 0, 2, 10)}); err == nil {
		t.Error("newService(port 0) succeeded")
	}
}

func TestForward(t *testing.T) {
	entries := make(chan *mdns.ServiceEntry, 4)
	entries <- &mdns.ServiceEntry{AddrV4: net.IPv4(192, 0, 2, 10), Port: 8080}
	entries <- &mdns.ServiceEntry{Port: 8080}
	entries <- &mdns.ServiceEntry{AddrV4: net.IPv4(192, 0, 2, 11)}
	entries <- &mdns.ServiceEntry{AddrV4: net.IPv4(192, 0, 2, 12), Port: 9090}
	close(entries)

	var got []string
	forward(entries, func(addr string) { got = append(got, addr) })
	if want := []string{"192.0.2.10:8080", "192.0.2.12:9090"}; !slices.Equal(got, want) {
		t.Errorf("forwarded %v, want %v", got, want)
	}
}

func TestPeersHandler(t *testing.T) {
	tests := []struct {
		name       string
		found      []string
		err        error
		wantStatus int
		wantPeers  []string
	}{
		{"none", nil, nil, http.StatusOK, []string{}},
		{"sorted and unique", []string{"192.0.2.12:9090", "192.0.2.10:8080", "192.0.2.12:9090"}, nil,
			http.StatusOK, []string{"192.0.2.10:8080", "192.0.2.12:9090"}},
		{"lookup failure", nil, errors.New("no multicast"), http.StatusBadGateway, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{timeout: time.Millisecond, browse: func(_ time.Duration, found func(string)) error {
				for _, addr := range tt.found {
					found(addr)
				}
				return tt.err
			}}
			r := mux.NewRouter()
			h.Register(r)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/peers", nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantPeers == nil {
				return
			}
			var resp peersResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(resp.Peers, tt.wantPeers) {
				t.Errorf("peers = %v, want %v", resp.Peers, tt.wantPeers)
			}
		})
	}
}
