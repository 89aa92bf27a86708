package notify

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type invite struct {
	to   string
	link string
}

// AsyncNotifier queues invites on a bounded channel drained by a single
// background worker. Enqueueing never blocks: a full queue drops the invite
// with a log line. Send failures are logged and swallowed; they must never
// fail the operation that triggered them.
type AsyncNotifier struct {
	sender Sender
	queue  chan invite
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewAsyncNotifier(sender Sender, queueSize int, log *zap.Logger) *AsyncNotifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	n := &AsyncNotifier{
		sender: sender,
		queue:  make(chan invite, queueSize),
		log:    log,
	}
	n.wg.Add(1)
	go n.run()
	return n
}

func (n *AsyncNotifier) SendInterviewInvite(to, link string) {
	select {
	case n.queue <- invite{to: to, link: link}:
	default:
		n.log.Warn("notification queue full, dropping interview invite", zap.String("to", to))
	}
}

// Close drains the queue and stops the worker.
func (n *AsyncNotifier) Close() {
	close(n.queue)
	n.wg.Wait()
}

func (n *AsyncNotifier) run() {
	defer n.wg.Done()
	for msg := range n.queue {
		subject, body := inviteMessage(msg.link)
		if err := n.sender.Send(msg.to, subject, body); err != nil {
			n.log.Error("send interview invitation", zap.String("to", msg.to), zap.Error(err))
			continue
		}
		n.log.Info("interview invitation sent", zap.String("to", msg.to))
	}
}

func inviteMessage(link string) (subject, body string) {
	meeting := time.Now().AddDate(0, 0, 1)
	meeting = time.Date(meeting.Year(), meeting.Month(), meeting.Day(), 10, 0, 0, 0, meeting.Location())

	subject = "Congratulations! You've been Shortlisted for an AI Interview"
	body = fmt.Sprintf(`Congratulations! Your profile has been shortlisted.
We have scheduled a 1:1 interaction with our recruiting team via our AI Platform.
--------------------------------------------------
Date & Time: %s
Link: %s
--------------------------------------------------
Please click the link above to start your interview at the scheduled time.
This is an automated AI interview process. Good luck!`,
		meeting.Format("2006-01-02 15:04"), link)
	return subject, body
}
