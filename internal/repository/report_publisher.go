package repository

import (
	"context"
	"fmt"

	"QuadSig/internal/domain/models"
	"QuadSig/pkg/kafka"
)

// KafkaReportPublisher publishes signal reports to a Kafka topic, keyed
// by primary quadrant so consumers see regime transitions in order.
// Implements domain repository.ReportPublisher.
type KafkaReportPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaReportPublisher creates a publisher over an existing producer.
func NewKafkaReportPublisher(producer *kafka.Producer, topic string) (*KafkaReportPublisher, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	return &KafkaReportPublisher{producer: producer, topic: topic}, nil
}

// Publish sends one report.
func (p *KafkaReportPublisher) Publish(ctx context.Context, report *models.SignalReport) error {
	key := []byte(report.Regime.PrimaryQuadrant)
	return p.producer.Publish(ctx, p.topic, key, report)
}

// Close closes the underlying producer.
func (p *KafkaReportPublisher) Close() error {
	return p.producer.Close()
}
