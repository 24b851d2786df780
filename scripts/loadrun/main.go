// Command loadrun fires a synthetic scheduling batch at a running API
// instance and reports placement statistics. Useful for smoke-testing a
// deployment and for eyeballing engine behaviour under different batch
// sizes and seeds.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type classRequestPayload struct {
	Subject        string  `json:"subject"`
	DepartmentCode string  `json:"departmentCode"`
	Instructor     string  `json:"instructor"`
	ClassType      string  `json:"classType"`
	DurationHours  float64 `json:"durationHours"`
}

type startRunPayload struct {
	Requests []classRequestPayload `json:"requests"`
	Seed     *int64                `json:"seed,omitempty"`
	Async    bool                  `json:"async,omitempty"`
}

type runEnvelope struct {
	Data struct {
		RunID  string `json:"runId"`
		Status string `json:"status"`
		Stats  struct {
			Requested   int `json:"requested"`
			Placed      int `json:"placed"`
			Unscheduled int `json:"unscheduled"`
			Rejected    int `json:"rejected"`
		} `json:"stats"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var subjects = []string{
	"Matematika", "Fisika", "Kimia", "Biologi", "Bahasa Indonesia",
	"Bahasa Inggris", "Sejarah", "Geografi", "Ekonomi", "Sosiologi",
}

var departments = []string{"MIPA", "IPS", "BAHASA"}

func main() {
	var (
		base    string
		count   int
		seed    int64
		async   bool
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.IntVar(&count, "count", 30, "Number of class requests in the batch")
	flag.Int64Var(&seed, "seed", 0, "Placement seed (0 means server-chosen)")
	flag.BoolVar(&async, "async", false, "Enqueue the run instead of waiting inline")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "HTTP client timeout")
	flag.Parse()

	payload := startRunPayload{Async: async}
	if seed != 0 {
		payload.Seed = &seed
	}
	for i := 0; i < count; i++ {
		classType := "lecture"
		if i%7 == 0 {
			classType = "laboratory"
		}
		payload.Requests = append(payload.Requests, classRequestPayload{
			Subject:        fmt.Sprintf("%s %d", subjects[i%len(subjects)], i/len(subjects)+1),
			DepartmentCode: departments[i%len(departments)],
			Instructor:     fmt.Sprintf("Guru %d", i%12+1),
			ClassType:      classType,
			DurationHours:  float64(i%3 + 1),
		})
	}

	client := &http.Client{Timeout: timeout}
	url := strings.TrimRight(base, "/") + "/api/v1/timetable/runs"

	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("marshal payload: %v", err)
	}

	start := time.Now()
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var envelope runEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.Fatalf("decode response (%d): %v\n%s", resp.StatusCode, err, raw)
	}
	if envelope.Error != nil {
		fmt.Printf("Run rejected [%s]: %s\n", envelope.Error.Code, envelope.Error.Message)
		os.Exit(1)
	}

	data := envelope.Data
	fmt.Println("Load Run Report")
	fmt.Println("===============")
	fmt.Printf("Run ID:      %s\n", data.RunID)
	fmt.Printf("Status:      %s\n", data.Status)
	fmt.Printf("Duration:    %s\n", elapsed)
	fmt.Printf("Requested:   %d\n", data.Stats.Requested)
	fmt.Printf("Placed:      %d\n", data.Stats.Placed)
	fmt.Printf("Unscheduled: %d\n", data.Stats.Unscheduled)
	fmt.Printf("Rejected:    %d\n", data.Stats.Rejected)

	if async {
		fmt.Printf("Poll progress at %s/api/v1/timetable/runs/%s/progress\n", strings.TrimRight(base, "/"), data.RunID)
		return
	}
	if data.Stats.Unscheduled > 0 {
		os.Exit(2)
	}
}
