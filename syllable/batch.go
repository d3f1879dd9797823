package syllable

import (
	"context"
	"sync"

	"github.com/RyanBlaney/sonido-syllable/transcode"
)

// GenerateAll runs seg over every waveform with at most workers concurrent calls and
// returns the region lists in input order. Once ctx is cancelled no new waveform is
// started; lists for waveforms that never ran are nil and ctx.Err() is returned.
func GenerateAll(ctx context.Context, seg Segmenter, waveforms []*transcode.AudioData, workers int) ([][]Region, error) {
	results := make([][]Region, len(waveforms))
	if len(waveforms) == 0 {
		return results, ctx.Err()
	}
	workers = min(max(workers, 1), len(waveforms))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = seg.Generate(waveforms[i])
			}
		}()
	}

	var err error
schedule:
	for i := range waveforms {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break schedule
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, err
}
