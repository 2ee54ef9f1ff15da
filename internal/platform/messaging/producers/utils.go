package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	partitionReadRetries = 5
	partitionRetryDelay  = 2 * time.Second
)

// createKafkaTopicIfNotExists makes the events topic available before the
// writer is constructed. Broker metadata can lag right after startup, so
// the partition read is retried before concluding the topic is missing.
func createKafkaTopicIfNotExists(conn *kafka.Conn, topicName string, numPartitions, replicationFactor int, log *slog.Logger) error {
	log.Info("Checking if Kafka topic exists", "topic", topicName)

	var partitions []kafka.Partition
	var readErr error
	for attempt := 1; attempt <= partitionReadRetries; attempt++ {
		partitions, readErr = conn.ReadPartitions(topicName)
		if readErr == nil {
			break
		}
		log.Warn("Failed to read partitions, retrying...",
			"topic", topicName, "attempt", attempt, "error", readErr)
		time.Sleep(partitionRetryDelay)
	}

	if len(partitions) > 0 {
		if readErr != nil {
			log.Warn("Kafka topic exists but the final partition read failed",
				"topic", topicName, "error", readErr)
		} else {
			log.Info("Kafka topic already exists", "topic", topicName)
		}
		return nil
	}

	log.Info("Kafka topic not found, creating it", "topic", topicName, "last_read_error", readErr)

	if numPartitions <= 0 {
		numPartitions = 1
	}
	if replicationFactor <= 0 {
		replicationFactor = 1
	}

	err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
	if err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicName, err)
	}

	log.Info("Successfully created Kafka topic", "topic", topicName)
	return nil
}
