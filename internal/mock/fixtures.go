package mock

// Fixtures is the canned data the mock surfaces serve. Field shapes follow
// the upstream APIs being mocked; values are static so callers can assert
// on them.

type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsChannel bool   `json:"is_channel"`
}

type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	IsBot    bool   `json:"is_bot"`
}

type Email struct {
	ID       string
	ThreadID string
	Subject  string
	From     string
	To       string
	Date     string
	Body     string
	Labels   []string
}

type Fixtures struct {
	TeamID   string
	BotUser  string
	Channels []Channel
	Members  []Member
	Emails   []Email
}

func DefaultFixtures() *Fixtures {
	return &Fixtures{
		TeamID:  "T0PERSONAI",
		BotUser: "U0BRIEFBOT",
		Channels: []Channel{
			{ID: "C1234567890", Name: "general", IsChannel: true},
			{ID: "C2345678901", Name: "daily-briefings", IsChannel: true},
			{ID: "C3456789012", Name: "engineering", IsChannel: true},
		},
		Members: []Member{
			{ID: "U0BRIEFBOT", Name: "briefbot", RealName: "Brief Bot", IsBot: true},
			{ID: "U1234567890", Name: "avery", RealName: "Avery Collins"},
			{ID: "U2345678901", Name: "jordan", RealName: "Jordan Lee"},
			{ID: "U3456789012", Name: "sam", RealName: "Sam Okafor"},
		},
		Emails: []Email{
			{
				ID:       "gmail_000001",
				ThreadID: "thread_000001",
				Subject:  "Daily Standup Meeting - Project Update",
				From:     "avery.collins@person.ai",
				To:       "team@person.ai",
				Date:     "2024-03-18T09:15:00Z",
				Body:     "Hi team, quick update on the briefing pipeline: ingestion is green, summarization latency is down 12%.",
				Labels:   []string{"INBOX", "WORK"},
			},
			{
				ID:       "gmail_000002",
				ThreadID: "thread_000001",
				Subject:  "Invoice #INV-2024-001 - Payment Due",
				From:     "billing@acme.example",
				To:       "finance@person.ai",
				Date:     "2024-03-18T11:42:00Z",
				Body:     "Please find attached invoice INV-2024-001. Payment is due within 30 days.",
				Labels:   []string{"INBOX", "IMPORTANT"},
			},
			{
				ID:       "gmail_000003",
				ThreadID: "thread_000002",
				Subject:  "Quarterly Sales Report - Q1 2024",
				From:     "jordan.lee@person.ai",
				To:       "leadership@person.ai",
				Date:     "2024-03-19T16:05:00Z",
				Body:     "Q1 numbers are in: pipeline grew 18% quarter over quarter, churn held at 2.1%.",
				Labels:   []string{"INBOX", "WORK", "IMPORTANT"},
			},
			{
				ID:       "gmail_000004",
				ThreadID: "thread_000003",
				Subject:  "Security Alert - Password Reset Required",
				From:     "security@person.ai",
				To:       "sam.okafor@person.ai",
				Date:     "2024-03-20T08:30:00Z",
				Body:     "We detected a sign-in from a new device. Reset your password if this was not you.",
				Labels:   []string{"INBOX"},
			},
			{
				ID:       "gmail_000005",
				ThreadID: "thread_000004",
				Subject:  "Client Meeting Scheduled for Tomorrow",
				From:     "calendar@person.ai",
				To:       "avery.collins@person.ai",
				Date:     "2024-03-20T17:55:00Z",
				Body:     "Reminder: demo with Northwind at 10:00. Agenda and dial-in are on the calendar invite.",
				Labels:   []string{"INBOX", "PERSONAL"},
			},
		},
	}
}
