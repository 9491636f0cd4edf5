package worker_test

import (
	"testing"

	"github.com/sat-ai-platform/client/internal/worker"
)

func TestPool_DrainsAfterClose(t *testing.T) {
	p := worker.NewPool[int](2, 4)
	for i := 0; i < 4; i++ {
		n := i
		p.Submit("job", func() int { return n * n })
	}
	p.Close()

	sum := 0
	count := 0
	for res := range p.Results() {
		sum += res.Output
		count++
	}
	if count != 4 {
		t.Fatalf("expected 4 results, got %d", count)
	}
	if sum != 0+1+4+9 {
		t.Errorf("sum = %d, want 14", sum)
	}
}
