package domain

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
}

// AwardPublisher доставляет события о начислениях батчами
// с ограниченным числом повторов
type AwardPublisher interface {
	PublisherPort
	BatchPublishAwardsWithRetry(topic string, awards []*BonusAward, batchSize int, maxRetries int) error
}
