package service

import (
	"context"
	"errors"
	"testing"
)

func TestDeleteRejectsSelf(t *testing.T) {
	// До базы дело дойти не должно, менеджер не нужен.
	svc := NewUserService(nil, nil)
	err := svc.Delete(context.Background(), 1, 42, 42)
	if !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("err = %v, want ErrSelfDelete", err)
	}
}
