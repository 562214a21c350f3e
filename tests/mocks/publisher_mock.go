package mocks

import (
	"github.com/benmeehan/location-store/pkg/events"
	"github.com/stretchr/testify/mock"
)

// Publisher is a mock implementation of the events.Publisher interface
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(event events.RecordEvent) error {
	args := m.Called(event)
	return args.Error(0)
}
