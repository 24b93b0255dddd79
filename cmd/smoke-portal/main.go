// Smoke test against a running portal: issues a dev token, reads reference
// data through the resolver and drives one RFP through the full workflow.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/httpclient"
	"github.com/moarster/yms-react-sub001/internal/rfp"
)

type devTokenProvider struct {
	base  string
	user  string
	org   string
	roles []string

	mu    sync.Mutex
	token string
}

func (p *devTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" {
		return p.token, nil
	}
	return p.fetchLocked(ctx)
}

func (p *devTokenProvider) Refresh(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchLocked(ctx)
}

func (p *devTokenProvider) fetchLocked(ctx context.Context) (string, error) {
	anon, err := httpclient.New(p.base)
	if err != nil {
		return "", err
	}
	var resp struct {
		Token string `json:"token"`
	}
	err = anon.Post(ctx, "/v1/auth/token", map[string]any{
		"user":         p.user,
		"organization": p.org,
		"roles":        p.roles,
	}, &resp)
	if err != nil {
		return "", err
	}
	p.token = resp.Token
	return p.token, nil
}

func newClient(base, user, org string, roles ...string) *httpclient.Client {
	client, err := httpclient.New(base,
		httpclient.WithTokenProvider(&devTokenProvider{base: base, user: user, org: org, roles: roles}),
		httpclient.WithTimeout(10*time.Second),
	)
	if err != nil {
		log.Fatalf("client: %v", err)
	}
	return client
}

func main() {
	base := os.Getenv("PORTAL_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logist := newClient(base, "smoke-logist", "org-smoke-l", "logist")
	carrier := newClient(base, "smoke-carrier", "org-smoke-c", "carrier")

	fetcher, err := catalog.NewHTTPFetcher(logist)
	if err != nil {
		log.Fatalf("fetcher: %v", err)
	}
	resolver, err := catalog.NewResolver(fetcher)
	if err != nil {
		log.Fatalf("resolver: %v", err)
	}

	shipmentTypes, err := resolver.Options(ctx, "shipment-type", catalog.KindList)
	if err != nil {
		log.Fatalf("shipment types: %v", err)
	}
	vehicleTypes, err := resolver.Options(ctx, "vehicle-type", catalog.KindList)
	if err != nil {
		log.Fatalf("vehicle types: %v", err)
	}
	natures, err := resolver.Options(ctx, "cargo-nature", catalog.KindList)
	if err != nil {
		log.Fatalf("cargo natures: %v", err)
	}
	if len(shipmentTypes) == 0 || len(vehicleTypes) == 0 || len(natures) == 0 {
		log.Fatal("reference lists are empty; seed the database first")
	}

	data := rfp.Data{
		ShipmentType:        shipmentTypes[0],
		RequiredVehicleType: vehicleTypes[0],
		Route: []rfp.RoutePoint{
			{
				Address:   "Almaty, Abay ave 1",
				ArrivalAt: time.Now().Add(48 * time.Hour).Format("2006-01-02T15:04"),
				CargoList: []rfp.Cargo{
					{Number: "SMOKE-1", Weight: 500, Volume: 6, CargoNature: natures[0]},
				},
			},
		},
	}

	var doc rfp.ShipmentRfp
	if err := logist.Post(ctx, "/v1/rfps", map[string]any{"data": data}, &doc); err != nil {
		log.Fatalf("create rfp: %v", err)
	}
	if doc.Status != rfp.StatusNew {
		log.Fatalf("expected NEW, got %s", doc.Status)
	}

	if err := logist.Post(ctx, "/v1/rfps/"+doc.ID+"/publish", nil, &doc); err != nil {
		log.Fatalf("publish: %v", err)
	}
	assignment := map[string]any{
		"carrier": catalog.NewLink(catalog.KindCatalog, "carrier", "org-smoke-c", "Smoke Carrier"),
	}
	if err := logist.Post(ctx, "/v1/rfps/"+doc.ID+"/assign", assignment, &doc); err != nil {
		log.Fatalf("assign: %v", err)
	}
	if err := carrier.Post(ctx, "/v1/rfps/"+doc.ID+"/complete", nil, &doc); err != nil {
		log.Fatalf("complete: %v", err)
	}
	if doc.Status != rfp.StatusCompleted {
		log.Fatalf("expected COMPLETED, got %s", doc.Status)
	}

	var fresh rfp.ShipmentRfp
	if err := logist.GetWithRetry(ctx, "/v1/rfps/"+doc.ID, &fresh, 3); err != nil {
		log.Fatalf("reread: %v", err)
	}
	if fresh.AssignedCarrier.ID != "org-smoke-c" {
		log.Fatalf("carrier lost on reread: %+v", fresh.AssignedCarrier)
	}

	fmt.Printf("portal smoke test passed: rfp=%s status=%s\n", doc.ID, doc.Status)
}
