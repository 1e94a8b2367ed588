package internal

import (
	"time"
)

// testTime is a fixed detection time used by the helpers below
var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// CreateTestMessage creates a captured reply with sample data
func CreateTestMessage(id int64, service, content string) Message {
	return Message{
		ID:          id,
		SessionID:   1,
		Role:        RoleAssistant,
		Service:     service,
		Content:     content,
		ContentHash: ReplyHash(service, content),
		DetectedAt:  testTime.Add(time.Duration(id) * time.Second),
		Meta:        MessageMeta{Source: SourceClipboard},
	}
}

// CreateTestExchange creates a question and one tagged reply per service
func CreateTestExchange(ts, question string, services ...string) []Message {
	msgs := []Message{{
		ID:          1,
		SessionID:   1,
		TS:          ts,
		Role:        RoleUser,
		Service:     QuestionService,
		Content:     question,
		ContentHash: QuestionHash(ts, question),
		DetectedAt:  testTime,
		Meta:        MessageMeta{Label: LabelQuestion, Source: SourcePrompt, TS: ts},
	}}
	for i, svc := range services {
		msg := CreateTestMessage(int64(i+2), svc, "Answer from "+svc)
		msg.TS = ts
		msgs = append(msgs, msg)
	}
	return msgs
}
