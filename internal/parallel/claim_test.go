package parallel

import (
	"sync"
	"testing"
)

func TestClaim_FirstWriterWins(t *testing.T) {
	t.Parallel()
	var c Claim[int]

	if c.Claimed() {
		t.Fatal("fresh claim should not be claimed")
	}
	if !c.TryClaim(42) {
		t.Fatal("first TryClaim should succeed")
	}
	if c.TryClaim(99) {
		t.Error("second TryClaim should fail")
	}

	v, ok := c.Value()
	if !ok {
		t.Fatal("Value should report a claim")
	}
	if v != 42 {
		t.Errorf("Expected claimed value 42, got %d", v)
	}
}

func TestClaim_Concurrency(t *testing.T) {
	t.Parallel()
	var c Claim[int]
	var wg sync.WaitGroup
	numGoroutines := 100

	winners := make(chan int, numGoroutines)
	start := make(chan struct{})

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			<-start
			if c.TryClaim(id) {
				winners <- id
			}
		}(i)
	}

	close(start)
	wg.Wait()
	close(winners)

	var winnerIDs []int
	for id := range winners {
		winnerIDs = append(winnerIDs, id)
	}
	if len(winnerIDs) != 1 {
		t.Fatalf("Expected exactly one winner, got %d", len(winnerIDs))
	}

	v, ok := c.Value()
	if !ok || v != winnerIDs[0] {
		t.Errorf("Claimed value %d does not match winner %d", v, winnerIDs[0])
	}
}
