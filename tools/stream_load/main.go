// Command stream_load opens many concurrent subscriptions to the dashboard
// heatmap stream and reports how many snapshot events each kind of line produced.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	var (
		targetURL    string
		connections  int
		testDuration time.Duration
		rampUp       time.Duration
	)

	flag.StringVar(&targetURL, "url", "http://localhost:8000/heatmap/stream", "heatmap stream URL")
	flag.IntVar(&connections, "conns", 1000, "number of concurrent subscriptions to open")
	flag.DurationVar(&testDuration, "dur", 60*time.Second, "test duration (0 for until interrupted)")
	flag.DurationVar(&rampUp, "ramp", 0, "spread subscription starts across this window")
	flag.Parse()

	if connections <= 0 {
		log.Fatalf("invalid conns: %d", connections)
	}

	rampUp, interval := rampInterval(connections, rampUp)
	log.Printf("starting stream load: url=%s conns=%d duration=%s ramp=%s", targetURL, connections, testDuration, rampUp)

	client := &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     connections + 100,
			MaxIdleConns:        connections + 100,
			MaxIdleConnsPerHost: connections + 100,
			DisableCompression:  true,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if testDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, testDuration)
		defer cancel()
	}

	var (
		st    stats
		wg    sync.WaitGroup
		start = time.Now()
	)

	go report(ctx, &st, start)

	for i := 0; i < connections && ctx.Err() == nil; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				continue
			case <-time.After(interval):
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			subscribe(ctx, client, targetURL, &st)
		}()
	}

	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("done: %s elapsed=%s heatmaps/s=%.2f\n", st.String(), elapsed.Truncate(time.Millisecond), st.rate(elapsed))
}

func subscribe(ctx context.Context, client *http.Client, url string, st *stats) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		st.connectErrs.Add(1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		st.connectErrs.Add(1)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		st.connectErrs.Add(1)
		return
	}

	st.connected.Add(1)
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				st.streamErrs.Add(1)
			}
			return
		}
		st.observe(line)
	}
}

func report(ctx context.Context, st *stats, start time.Time) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("status: %s elapsed=%s", st.String(), time.Since(start).Truncate(time.Second))
		}
	}
}
