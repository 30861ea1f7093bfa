package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	maxEntityID  = 200
	maxPage      = 5
)

var (
	categories = []string{"fruit", "dairy", "snacks", "beverages", "frozen"}
	sorts      = []string{"price-asc", "price-desc", "name-asc", "name-desc"}
	statuses   = []string{"active", "ending-soon", "upcoming", "ended"}
	pages      = []string{"about", "contact", "delivery", "faq"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== catalogd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: plain listings, warms the response cache
	fmt.Println("\n--- Phase 1: Listing endpoints ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch rng.Intn(4) {
		case 0:
			return doGet("GET /products", "/products")
		case 1:
			return doGet("GET /categories", "/categories")
		case 2:
			return doGet("GET /brands", "/brands")
		default:
			return doGet("GET /promotions", "/promotions")
		}
	})

	// Phase 2: mixed listings and detail lookups
	fmt.Println("\n--- Phase 2: Mixed listing/detail load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.35:
			return doGetProducts(rng)
		case r < 0.55:
			return doGetProduct(rng)
		case r < 0.70:
			return doGetPromotions(rng)
		case r < 0.80:
			return doGetPromotion(rng)
		case r < 0.90:
			return doGet("GET /site-info", "/site-info")
		default:
			return doGetPage(rng)
		}
	})

	// Phase 3: filter-heavy product queries, mostly cache misses
	fmt.Println("\n--- Phase 3: Filtered product queries ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.70:
			return doGetProducts(rng)
		case r < 0.85:
			return doGetProduct(rng)
		default:
			return doGetPromotions(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGet(name, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{name, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{name, resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetProducts(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/products?page=%d&size=20", baseURL, rng.Intn(maxPage)+1)
	if rng.Float64() < 0.5 {
		url += "&category=" + categories[rng.Intn(len(categories))]
	}
	if rng.Float64() < 0.4 {
		url += "&sort=" + sorts[rng.Intn(len(sorts))]
	}
	if rng.Float64() < 0.2 {
		url += "&discount=true"
	}
	return doGet("GET /products", url[len(baseURL):])
}

func doGetProduct(rng *rand.Rand) result {
	path := fmt.Sprintf("/product?id=%d", rng.Intn(maxEntityID)+1)
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /product", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// unknown ids legitimately 404
	ok := resp.StatusCode == 200 || resp.StatusCode == 404
	return result{"GET /product", resp.StatusCode, lat, !ok}
}

func doGetPromotions(rng *rand.Rand) result {
	path := "/promotions"
	if rng.Float64() < 0.5 {
		path += "?status=" + statuses[rng.Intn(len(statuses))]
	}
	return doGet("GET /promotions", path)
}

func doGetPromotion(rng *rand.Rand) result {
	path := fmt.Sprintf("/promotion?id=%d", rng.Intn(maxEntityID)+1)
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /promotion", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := resp.StatusCode == 200 || resp.StatusCode == 404
	return result{"GET /promotion", resp.StatusCode, lat, !ok}
}

func doGetPage(rng *rand.Rand) result {
	return doGet("GET /page", "/page?id="+pages[rng.Intn(len(pages))])
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
