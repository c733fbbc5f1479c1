package service

import "errors"

var (
	// ErrInvalidTransition 前序阶段未完成时完成后序阶段
	ErrInvalidTransition = errors.New("previous stage not completed")
	// ErrMissingAllocation 已分配状态订单缺少分配单
	ErrMissingAllocation = errors.New("allocation missing for order")
	// ErrInvalidStatus 当前状态不允许该操作
	ErrInvalidStatus = errors.New("operation not allowed in current status")
)
