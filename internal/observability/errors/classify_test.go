package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type classed struct{ class string }

func (c classed) Error() string       { return "classed" }
func (c classed) MetricClass() string { return c.class }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "classifier", err: fmt.Errorf("wrap: %w", classed{class: "remote_4xx"}), want: "remote_4xx"},
		{name: "empty class falls through", err: classed{}, want: "errors_classed"},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "net op", err: &net.OpError{Op: "dial", Err: goerrors.New("refused")}, want: "network"},
		{name: "innermost type", err: fmt.Errorf("outer: %w", &plainErr{}), want: "errors_plainerr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
