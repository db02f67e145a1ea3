package main

import (
	"flag"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Scenario is one kind of balance-changing request
type Scenario struct {
	Name   string
	Action string // "credit" or "purchase"
	Amount int64
}

// TestResult contains metrics for a single request
type TestResult struct {
	Scenario     string
	Success      bool
	Rejected     bool // expected business rejection, e.g. insufficient funds
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	RejectedRequests   int
	FailedRequests     int
	TotalTime          time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	UserStats          map[string]int
	ScenarioStats      map[string]int
	Lock               sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	userIDsStr := flag.String("u", "load-1,load-2,load-3", "Comma-separated list of user IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	adminKey := flag.String("admin-key", "dev-admin-key", "X-Admin-Key used for credits")
	productID := flag.String("product", "", "Product ID to purchase; empty runs credits only")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	var userIDs []string
	for _, id := range strings.Split(*userIDsStr, ",") {
		if id = strings.TrimSpace(id); id != "" {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) == 0 {
		userIDs = []string{"load-1"}
	}

	scenarios := []Scenario{
		{"Credit Small", "credit", 1_000},
		{"Credit Large", "credit", 25_000},
	}
	if *productID != "" {
		scenarios = append(scenarios,
			Scenario{"Purchase", "purchase", 1},
			Scenario{"Purchase x2", "purchase", 2},
		)
	}

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")

	for _, id := range userIDs {
		// 409 means the account exists from an earlier run
		resp, err := client.R().
			SetBody(map[string]string{"id": id, "username": "user_" + id}).
			Post("/users")
		if err != nil {
			fmt.Printf("Failed to register %s: %v\n", id, err)
			return
		}
		if resp.StatusCode() != 201 && resp.StatusCode() != 409 {
			fmt.Printf("Failed to register %s: HTTP %d %s\n", id, resp.StatusCode(), resp.String())
			return
		}
	}

	fmt.Printf("Load testing ledger across %d users: %v\n", len(userIDs), userIDs)
	fmt.Printf("Scenarios: %d\n", len(scenarios))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &TestStats{
		TotalRequests: *totalRequests,
		ErrorCounts:   make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		UserStats:     make(map[string]int),
		ScenarioStats: make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.Lock.Lock()
			switch {
			case result.Success:
				stats.SuccessfulRequests++
			case result.Rejected:
				stats.RejectedRequests++
			default:
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}
			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if *delayMs > 0 {
					time.Sleep(time.Duration(*delayMs) * time.Millisecond)
				}
				userID := userIDs[rand.Intn(len(userIDs))]
				scenario := scenarios[rand.Intn(len(scenarios))]

				stats.Lock.Lock()
				stats.UserStats[userID]++
				stats.ScenarioStats[scenario.Name]++
				stats.Lock.Unlock()

				results <- send(client, *adminKey, *productID, userID, scenario)
			}
		}()
	}

	wg.Wait()
	close(results)
	<-collected
	stats.TotalTime = time.Since(startTime)

	printResults(stats)
	auditUsers(client, userIDs)
}

func send(client *resty.Client, adminKey, productID, userID string, scenario Scenario) TestResult {
	req := client.R()
	var path string
	switch scenario.Action {
	case "credit":
		path = fmt.Sprintf("/admin/users/%s/balance", userID)
		req.SetHeader("X-Admin-Key", adminKey).
			SetBody(map[string]any{"action": "add", "amount": scenario.Amount})
	default:
		path = fmt.Sprintf("/users/%s/products/%s/purchase", userID, productID)
		req.SetBody(map[string]any{"quantity": scenario.Amount})
	}

	start := time.Now()
	resp, err := req.Post(path)
	result := TestResult{Scenario: scenario.Name, ResponseTime: time.Since(start)}
	if err != nil {
		result.Error = err
		return result
	}

	result.StatusCode = resp.StatusCode()
	result.Success = resp.IsSuccess()
	if !result.Success {
		code := gjson.GetBytes(resp.Body(), "code").Int()
		// insufficient funds and out of stock are correct answers under load
		if code == 4001 || code == 4006 {
			result.Rejected = true
			return result
		}
		result.Error = fmt.Errorf("HTTP %d code %d", resp.StatusCode(), code)
	}
	return result
}

// auditUsers checks that every balance still equals the sum of its ledger
func auditUsers(client *resty.Client, userIDs []string) {
	fmt.Println("\n----------------- LEDGER AUDIT -----------------")
	for _, id := range userIDs {
		resp, err := client.R().Get(fmt.Sprintf("/users/%s/ledger/audit", id))
		if err != nil {
			fmt.Printf("%-15s: audit failed: %v\n", id, err)
			continue
		}
		body := resp.Body()
		mark := "✅"
		if !gjson.GetBytes(body, "consistent").Bool() {
			mark = "❌"
		}
		fmt.Printf("%s %-15s balance=%d ledger=%d\n", mark, id,
			gjson.GetBytes(body, "balance").Int(), gjson.GetBytes(body, "ledgerSum").Int())
	}
}

func printResults(stats *TestStats) {
	answered := stats.SuccessfulRequests + stats.RejectedRequests
	tps := float64(answered) / stats.TotalTime.Seconds()

	var avg, p50, p90, p99, lo, hi time.Duration
	if n := len(stats.ResponseTimes); n > 0 {
		sorted := slices.Clone(stats.ResponseTimes)
		slices.Sort(sorted)
		var total time.Duration
		for _, d := range sorted {
			total += d
		}
		avg = total / time.Duration(n)
		lo, hi = sorted[0], sorted[n-1]
		p50 = sorted[n*50/100]
		p90 = sorted[n*90/100]
		p99 = sorted[n*99/100]
	}

	pct := func(v int) float64 { return float64(v) / float64(stats.TotalRequests) * 100 }

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful:          %d (%.1f%%)\n", stats.SuccessfulRequests, pct(stats.SuccessfulRequests))
	fmt.Printf("Rejected:            %d (%.1f%%)\n", stats.RejectedRequests, pct(stats.RejectedRequests))
	fmt.Printf("Failed:              %d (%.1f%%)\n", stats.FailedRequests, pct(stats.FailedRequests))
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Answered TPS:        %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avg)
	fmt.Printf("Minimum Response:    %v\n", lo)
	fmt.Printf("Maximum Response:    %v\n", hi)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- DISTRIBUTION -----------------")
	for userID, count := range stats.UserStats {
		fmt.Printf("User %-15s: %d requests\n", userID, count)
	}
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-20s: %d requests\n", scenario, count)
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count, pct(count))
		}
	}
}
