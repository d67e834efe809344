package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blackorder/pacer"
)

func main() {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	// Debounce: rapid keystrokes collapse into one search.
	search, err := pacer.NewDebouncer(func(query string) {
		fmt.Printf("searching for %q\n", query)
	}, 300*time.Millisecond, pacer.WithLogger(log))
	if err != nil {
		log.Fatal(err)
	}

	for _, q := range []string{"g", "go", "gop", "goph", "gopher"} {
		search.Call(q)
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(400 * time.Millisecond) // quiescence; fires once with "gopher"

	// Throttle: scroll positions forwarded at most once per 200ms, with
	// the final position replayed when the window closes.
	render, err := pacer.NewThrottler(func(pos int) {
		fmt.Printf("rendering at position %d\n", pos)
	}, 200*time.Millisecond, pacer.WithTrailing())
	if err != nil {
		log.Fatal(err)
	}

	for pos := 0; pos <= 1000; pos += 100 {
		render.Call(pos)
		time.Sleep(30 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	render.Cancel()

	// Coalesce: bare change signals batched into one refresh per 150ms.
	refresh, err := pacer.NewCoalescer(150 * time.Millisecond)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		refresh.Run(ctx, func() {
			fmt.Println("refreshing view")
		})
		close(done)
	}()

	for i := 0; i < 10; i++ {
		refresh.Trigger()
		time.Sleep(20 * time.Millisecond)
	}

	<-done
	fmt.Println("done")
}
