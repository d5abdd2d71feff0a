package enums

type ContentType string

const (
	ContentTypeMessage  ContentType = "message"
	ContentTypeProposal ContentType = "proposal"
	ContentTypeOrder    ContentType = "order"
	ContentTypeTask     ContentType = "task"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeMessage, ContentTypeProposal, ContentTypeOrder, ContentTypeTask:
		return true
	}
	return false
}
