package dealer

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/Beastly713/sharesplit/pkg/logging"
	"github.com/Beastly713/sharesplit/pkg/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelloWorld(t *testing.T) {
	d := New()

	resp, err := d.Split(&SplitRequest{Secret: "hello world", Shares: 5, Threshold: 3})
	require.NoError(t, err)
	require.Len(t, resp.Shares, 5)
	assert.Equal(t, 3, resp.Threshold)

	distinct := make(map[string]bool)
	for _, token := range resp.Shares {
		distinct[token] = true
	}
	assert.Len(t, distinct, 5)

	// every 3-subset recovers
	tokens := resp.Shares
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			for k := j + 1; k < len(tokens); k++ {
				got, err := d.Combine(&CombineRequest{Shares: []string{tokens[i], tokens[j], tokens[k]}})
				require.NoError(t, err)
				assert.Equal(t, "hello world", got.Secret)
			}
		}
	}

	// two shares are refused outright
	_, err = d.Combine(&CombineRequest{Shares: tokens[:2]})
	assert.ErrorIs(t, err, shamir.ErrInsufficientShares)
}

func TestBelowThresholdYieldsSomethingElse(t *testing.T) {
	d := New()
	resp, err := d.Split(&SplitRequest{Secret: "hello world", Shares: 5, Threshold: 4})
	require.NoError(t, err)

	got, err := d.Combine(&CombineRequest{Shares: resp.Shares[:3]})
	if err != nil {
		assert.ErrorIs(t, err, ErrNonUTF8Secret)
		return
	}
	assert.NotEqual(t, "hello world", got.Secret)
}

func TestSplitParameterErrors(t *testing.T) {
	d := New(WithRandom(iotest.ErrReader(errors.New("must not be read"))))

	_, err := d.Split(&SplitRequest{Secret: "s", Shares: 3, Threshold: 4})
	assert.ErrorIs(t, err, shamir.ErrInvalidParameters)
	assert.ErrorContains(t, err, "threshold cannot be greater than number of shares")

	_, err = d.Split(&SplitRequest{Secret: "s", Shares: 5, Threshold: 2})
	assert.ErrorIs(t, err, shamir.ErrInvalidParameters)
	assert.ErrorContains(t, err, "threshold must be at least 3")

	_, err = d.Split(&SplitRequest{Secret: "", Shares: 5, Threshold: 3})
	assert.ErrorIs(t, err, shamir.ErrInvalidParameters)
}

func TestSplitRejectsInvalidUTF8(t *testing.T) {
	_, err := New().Split(&SplitRequest{Secret: "bad \xff", Shares: 5, Threshold: 3})
	assert.ErrorIs(t, err, ErrNonUTF8Secret)
}

func TestSplitRandomnessFailure(t *testing.T) {
	d := New(WithRandom(iotest.ErrReader(errors.New("no entropy"))))
	_, err := d.Split(&SplitRequest{Secret: "secret", Shares: 5, Threshold: 3})
	assert.ErrorIs(t, err, shamir.ErrRandomness)
}

func TestDeterministicRandom(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42, 0x17}, 32)
	a, err := New(WithRandom(bytes.NewReader(seed))).Split(&SplitRequest{Secret: "pin 1234", Shares: 4, Threshold: 3})
	require.NoError(t, err)
	b, err := New(WithRandom(bytes.NewReader(seed))).Split(&SplitRequest{Secret: "pin 1234", Shares: 4, Threshold: 3})
	require.NoError(t, err)
	assert.Equal(t, a.Shares, b.Shares)
}

func TestCombineMalformedToken(t *testing.T) {
	d := New()
	resp, err := d.Split(&SplitRequest{Secret: "hello world", Shares: 5, Threshold: 3})
	require.NoError(t, err)

	_, err = d.Combine(&CombineRequest{Shares: []string{resp.Shares[0], "not-valid-base64!!", resp.Shares[2]}})
	require.ErrorIs(t, err, shamir.ErrMalformedShare)
	assert.ErrorContains(t, err, "share 2")
}

func TestCombineCountCheckedFirst(t *testing.T) {
	for _, tokens := range [][]string{nil, {"not-valid-base64!!"}, {"x", "y"}} {
		_, err := New().Combine(&CombineRequest{Shares: tokens})
		assert.ErrorIs(t, err, shamir.ErrInsufficientShares)
		assert.NotErrorIs(t, err, shamir.ErrMalformedShare)
	}
}

func TestCombineInconsistentTokens(t *testing.T) {
	d := New()
	a, err := d.Split(&SplitRequest{Secret: "short", Shares: 3, Threshold: 3})
	require.NoError(t, err)
	b, err := d.Split(&SplitRequest{Secret: "much longer secret", Shares: 3, Threshold: 3})
	require.NoError(t, err)

	_, err = d.Combine(&CombineRequest{Shares: []string{a.Shares[0], a.Shares[1], b.Shares[2]}})
	assert.ErrorIs(t, err, shamir.ErrInconsistentShares)

	_, err = d.Combine(&CombineRequest{Shares: []string{a.Shares[0], a.Shares[1], a.Shares[1]}})
	assert.ErrorIs(t, err, shamir.ErrInconsistentShares)
}

func TestCombineNonUTF8Result(t *testing.T) {
	shares, err := shamir.SplitSecure([]byte{0xff, 0xfe, 0xfd}, 3, 3)
	require.NoError(t, err)

	tokens := make([]string, len(shares))
	for i, s := range shares {
		tokens[i] = s.Encode()
	}

	_, err = New().Combine(&CombineRequest{Shares: tokens})
	assert.ErrorIs(t, err, ErrNonUTF8Secret)
}

func TestUnicodeSecret(t *testing.T) {
	d := New()
	secret := "пароль — 秘密 — 🔑"
	resp, err := d.Split(&SplitRequest{Secret: secret, Shares: 7, Threshold: 5})
	require.NoError(t, err)

	got, err := d.Combine(&CombineRequest{Shares: resp.Shares[2:]})
	require.NoError(t, err)
	assert.Equal(t, secret, got.Secret)
}

func TestSecretNeverLogged(t *testing.T) {
	var buf bytes.Buffer
	d := New(WithLogger(logging.NewLogger(slog.LevelDebug, &buf, nil)))

	resp, err := d.Split(&SplitRequest{Secret: "topsecret", Shares: 3, Threshold: 3})
	require.NoError(t, err)
	_, err = d.Combine(&CombineRequest{Shares: resp.Shares})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "splitting secret")
	assert.NotContains(t, buf.String(), "topsecret")
}

func TestConcurrentUse(t *testing.T) {
	d := New()
	var wg sync.WaitGroup
	errs := make(chan error, 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			secret := fmt.Sprintf("secret number %d", i)
			resp, err := d.Split(&SplitRequest{Secret: secret, Shares: 5, Threshold: 3})
			if err != nil {
				errs <- err
				return
			}
			got, err := d.Combine(&CombineRequest{Shares: resp.Shares[1:4]})
			if err != nil {
				errs <- err
				return
			}
			if got.Secret != secret {
				errs <- fmt.Errorf("goroutine %d recovered %q", i, got.Secret)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
