// Command cas-loadtest races concurrent verifications of each temporary
// ticket and reports how often a ticket was accepted more than once.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goCAS "github.com/MrEthical07/goCAS"
	"github.com/MrEthical07/goCAS/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		tickets   = flag.Int("tickets", 2000, "temporary tickets to issue per mode")
		racers    = flag.Int("racers", 8, "concurrent verifications per ticket")
		redisURL  = flag.String("redis-url", "", "redis url; if empty, CAS_REDIS_URL env or embedded miniredis is used")
		modesFlag = flag.StringSlice("modes", []string{"getdel", "script", "get-then-delete"}, "consume modes to exercise")
	)
	flag.Parse()

	if *tickets <= 0 || *racers <= 1 {
		fmt.Fprintln(os.Stderr, "tickets must be > 0 and racers > 1")
		return 2
	}

	modes := make([]store.ConsumeMode, 0, len(*modesFlag))
	for _, name := range *modesFlag {
		mode, err := store.ParseConsumeMode(strings.TrimSpace(name))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		modes = append(modes, mode)
	}

	url := *redisURL
	if url == "" {
		url = os.Getenv("CAS_REDIS_URL")
	}

	ctx := context.Background()

	var client redis.UniversalClient
	if url == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			return 1
		}
		defer mr.Close()
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		rdb, err := store.NewRedisClient(ctx, store.ClientOptions{URL: url})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to redis: %v\n", err)
			return 1
		}
		client = rdb
		fmt.Println("using configured redis")
	}
	defer client.Close()

	fmt.Println("---- results ----")
	exit := 0
	for _, mode := range modes {
		stats, err := runMode(ctx, client, mode, *tickets, *racers)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", mode, err)
			return 1
		}
		printStats(mode, stats)
		if mode.Atomic() && stats.doubleSpent > 0 {
			exit = 3
		}
	}
	return exit
}

type modeStats struct {
	total       time.Duration
	verifies    int
	accepted    int64
	doubleSpent int64
	p50         time.Duration
	p99         time.Duration
	opsPerS     float64
}

func runMode(ctx context.Context, client redis.UniversalClient, mode store.ConsumeMode, tickets, racers int) (modeStats, error) {
	cfg := goCAS.DefaultConfig()
	cfg.Store.ConsumeMode = mode
	cfg.Store.KeyNamespace = "loadtest:" + mode.String()
	cfg.Store.AllowBestEffortConsume = !mode.Atomic()

	authority, err := goCAS.New().
		WithConfig(cfg).
		WithStore(store.NewRedisStore(client, mode)).
		WithAuthenticator(goCAS.AuthenticatorFunc(func(context.Context, string, string) (goCAS.UserIdentity, bool, error) {
			return goCAS.UserIdentity{ID: "1", Username: "loadtest"}, true, nil
		})).
		Build()
	if err != nil {
		return modeStats{}, err
	}

	global, err := authority.EstablishSession(ctx, goCAS.UserIdentity{ID: "1", Username: "loadtest"})
	if err != nil {
		return modeStats{}, err
	}

	var (
		accepted    atomic.Int64
		doubleSpent atomic.Int64
		mu          sync.Mutex
		latencies   = make([]time.Duration, 0, tickets*racers)
	)

	start := time.Now()
	for i := 0; i < tickets; i++ {
		tmp, err := authority.IssueTemporaryTicket(ctx)
		if err != nil {
			return modeStats{}, err
		}

		var wins atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		for r := 0; r < racers; r++ {
			g.Go(func() error {
				t0 := time.Now()
				_, err := authority.VerifyTemporaryTicket(gctx, tmp, global)
				d := time.Since(t0)

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()

				switch {
				case err == nil:
					wins.Add(1)
					return nil
				case errors.Is(err, goCAS.ErrTicketInvalid):
					return nil
				default:
					return err
				}
			})
		}
		if err := g.Wait(); err != nil {
			return modeStats{}, err
		}

		n := wins.Load()
		accepted.Add(n)
		if n > 1 {
			doubleSpent.Add(1)
		}
	}
	total := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	return modeStats{
		total:       total,
		verifies:    len(latencies),
		accepted:    accepted.Load(),
		doubleSpent: doubleSpent.Load(),
		p50:         percentile(latencies, 50),
		p99:         percentile(latencies, 99),
		opsPerS:     float64(len(latencies)) / total.Seconds(),
	}, nil
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(mode store.ConsumeMode, s modeStats) {
	fmt.Printf("%s: verifies=%d accepted=%d double_spent=%d total=%s ops/sec=%.0f p50=%s p99=%s\n",
		mode,
		s.verifies,
		s.accepted,
		s.doubleSpent,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
