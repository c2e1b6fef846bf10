package event_type

import (
	"context"
)

type RepositoryStub struct {
	nextId int
	data   map[int]EventType
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{data: map[int]EventType{}}
}

// Add stores an event type under its own id, for test seeding.
func (s *RepositoryStub) Add(et EventType) {
	s.data[et.Id] = et
	if et.Id > s.nextId {
		s.nextId = et.Id
	}
}

func (s *RepositoryStub) GetById(ctx context.Context, id int) (EventType, error) {
	et, ok := s.data[id]
	if !ok {
		return EventType{}, ErrEventTypeNotFound
	}
	return et, nil
}

func (s *RepositoryStub) ListPersonal(ctx context.Context, userId int) ([]EventType, error) {
	result := make([]EventType, 0, len(s.data))
	for _, et := range s.data {
		if et.TeamId == nil && et.OwnerUserId != nil && *et.OwnerUserId == userId {
			result = append(result, et)
		}
	}
	return result, nil
}

func (s *RepositoryStub) ListByTeams(ctx context.Context, teamIds []int) (map[int][]EventType, error) {
	result := make(map[int][]EventType)
	for _, teamId := range teamIds {
		for _, et := range s.data {
			if et.TeamId != nil && *et.TeamId == teamId {
				result[teamId] = append(result[teamId], et)
			}
		}
	}
	return result, nil
}

func (s *RepositoryStub) Create(ctx context.Context, userId int, eventType EventType) (int, error) {
	s.nextId++
	eventType.Id = s.nextId
	eventType.OwnerUserId = &userId
	s.data[eventType.Id] = eventType
	return eventType.Id, nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, eventType EventType) (bool, error) {
	existing, ok := s.data[eventType.Id]
	if !ok || existing.OwnerUserId == nil || *existing.OwnerUserId != userId {
		return false, nil
	}
	s.data[eventType.Id] = eventType
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id int) (bool, error) {
	existing, ok := s.data[id]
	if !ok || existing.OwnerUserId == nil || *existing.OwnerUserId != userId {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *RepositoryStub) FindMaxPosition(ctx context.Context, userId int) (int, error) {
	maxPosition := 0
	for _, et := range s.data {
		if et.OwnerUserId != nil && *et.OwnerUserId == userId && et.Position > maxPosition {
			maxPosition = et.Position
		}
	}
	return maxPosition, nil
}

func (s *RepositoryStub) Reset() {
	s.nextId = 0
	s.data = map[int]EventType{}
}
