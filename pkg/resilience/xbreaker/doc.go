// Package xbreaker 基于 sony/gobreaker/v2 的熔断器。
//
// Breaker 以 TripPolicy 描述熔断条件，BreakerRetryer 把每次重试尝试都交给熔断器统计，
// 熔断器打开后返回的 BreakerError 不可重试，重试随即停止。
//
// 消息轨迹的投递用它保护共享轨迹生产者：broker 持续不可用时快速丢弃轨迹，
// 而不是让每一批都耗尽重试。
package xbreaker
