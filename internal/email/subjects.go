package email

const (
	subjectTaskDueFmt       = "Task due: %s"
	subjectOfferAcceptedFmt = "Offer accepted by %s"
)
