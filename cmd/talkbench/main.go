package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/d60-Lab/anontalk/config"
	"github.com/d60-Lab/anontalk/internal/locale"
	"github.com/d60-Lab/anontalk/internal/model"
	"github.com/d60-Lab/anontalk/internal/repository"
	"github.com/d60-Lab/anontalk/internal/service"
	"github.com/d60-Lab/anontalk/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer func() { _ = database.Close(db) }()

	humans := repository.NewHumanRepository(db)
	questions := repository.NewQuestionRepository(db)
	talks := repository.NewTalkRepository(db)
	messages := repository.NewMessageRepository(db)
	svc := service.NewTalkService(humans, questions, talks, messages, locale.StaticDetector("en"))

	ctx := context.Background()

	N := envInt("N", 1000)     // responders
	CONC := envInt("CONC", 16) // concurrent Next() per responder
	Q := envInt("Q", 1)        // questions on offer

	// seed: one asker with Q questions, N responders
	asker := &model.Human{Locale: "en"}
	if err := humans.Create(ctx, asker); err != nil {
		panic(err)
	}
	qs := make([]*model.Question, Q)
	for i := range qs {
		qs[i] = must(svc.Ask(ctx, asker.ID, fmt.Sprintf("bench question %d", i)))
	}
	responders := make([]*model.Human, N)
	for i := range responders {
		responders[i] = &model.Human{Locale: "en"}
		if err := humans.Create(ctx, responders[i]); err != nil {
			panic(err)
		}
	}

	// every responder fires CONC concurrent Next() calls; uniqueness must hold
	var (
		mu       sync.Mutex
		lat      = make([]time.Duration, 0, N*CONC)
		assigned atomic.Int64
		failures atomic.Int64
	)
	t0 := time.Now()
	var wg sync.WaitGroup
	for _, r := range responders {
		for c := 0; c < CONC; c++ {
			wg.Add(1)
			go func(id uint64) {
				defer wg.Done()
				st := time.Now()
				got, err := svc.Next(ctx, id)
				d := time.Since(st)
				if err != nil {
					failures.Add(1)
					return
				}
				assigned.Add(int64(len(got)))
				mu.Lock()
				lat = append(lat, d)
				mu.Unlock()
			}(r.ID)
		}
	}
	wg.Wait()
	total := time.Since(t0)

	var created int64
	for _, q := range qs {
		created += must(talks.CountByQuestion(ctx, q.ID))
	}

	fmt.Printf("N=%d, CONC=%d, Q=%d\n", N, CONC, Q)
	fmt.Printf("Next latency total: %v, p50: %v, p95: %v, p99: %v\n",
		total, pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
	fmt.Printf("Assignments returned: %d, talks stored: %d, failures: %d\n", assigned.Load(), created, failures.Load())
	// 每个回答者对每个问题至多一个对话
	if created > int64(N*Q) {
		fmt.Printf("UNIQUENESS VIOLATED: %d talks > %d pairs\n", created, N*Q)
		os.Exit(1)
	}
}
