package service

import (
	"context"
	"errors"
	"testing"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

func seedApprovedOrder(t *testing.T, env *testEnv) *entity.Order {
	t.Helper()
	ctx := context.Background()

	o, err := env.services.Order.CreateOrder(ctx, "user-001", &CreateOrderRequest{
		Title: "待分配订单",
		Items: []CreateOrderItem{
			{SKU: "SKU-A", ProductName: "吸塑玩具", Quantity: 100},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := env.services.Order.Submit(ctx, o.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := env.services.Order.Approve(ctx, o.ID, "approver-001"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	return o
}

// TestAllocateRejectsUnknownEnums 枚举非法时整单拒绝，不留分配单不改状态
func TestAllocateRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name string
		req  AllocateRequest
	}{
		{"packaging", AllocateRequest{PackagingType: "outsourced", PaymentMethod: entity.PaymentCreditTerms, CardType: entity.CardTypeNone}},
		{"payment", AllocateRequest{PackagingType: entity.PackagingInHouse, PaymentMethod: "monthly", CardType: entity.CardTypeNone}},
		{"card", AllocateRequest{PackagingType: entity.PackagingInHouse, PaymentMethod: entity.PaymentCreditTerms, CardType: "sticker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServices(t)
			ctx := context.Background()
			o := seedApprovedOrder(t, env)

			if _, err := env.services.Order.Allocate(ctx, o.ID, "allocator-001", &tt.req); !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("Allocate: %v, want ErrInvalidStatus", err)
			}

			// 订单未被翻到allocated，也没有任何半截记录
			after, _ := env.services.Order.Get(ctx, o.ID)
			if after.Status != entity.OrderStatusApproved {
				t.Fatalf("order status = %s after rejected allocate, want approved", after.Status)
			}
			if _, err := env.repos.Allocation.FindByOrderID(ctx, o.ID); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("allocation persisted by rejected allocate")
			}
			if _, err := env.repos.ProcurementProgress.FindByOrderID(ctx, o.ID); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("procurement progress persisted by rejected allocate")
			}
		})
	}
}

// TestAllocateValidEnums 合法枚举照常放行
func TestAllocateValidEnums(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	o := seedApprovedOrder(t, env)

	alloc, err := env.services.Order.Allocate(ctx, o.ID, "allocator-001", &AllocateRequest{
		PackagingType: entity.PackagingExternal,
		PaymentMethod: entity.PaymentPayOnDelivery,
		CardType:      entity.CardTypeDesign,
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if alloc.OrderID != o.ID {
		t.Fatalf("allocation order id = %s", alloc.OrderID)
	}

	after, _ := env.services.Order.Get(ctx, o.ID)
	if after.Status != entity.OrderStatusAllocated {
		t.Fatalf("order status = %s, want allocated", after.Status)
	}
}
