package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/events"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/notify"
	"github.com/Anantmishra121/learningedgeBackend/payment"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowState is a step of the checkout and verification workflow
type WorkflowState string

const (
	StateRequested        WorkflowState = "Requested"
	StateOrderCreated     WorkflowState = "OrderCreated"
	StateCallbackReceived WorkflowState = "CallbackReceived"
	StateVerified         WorkflowState = "Verified"
	StateRecorded         WorkflowState = "Recorded"
	StateEnrolled         WorkflowState = "Enrolled"
	StateNotified         WorkflowState = "Notified"
	StateRejected         WorkflowState = "Rejected"
	StatePartiallyFailed  WorkflowState = "PartiallyFailed"
)

// CheckoutConfig holds the settings of the checkout workflow
type CheckoutConfig struct {
	KeySecret      string
	Currency       string
	GatewayTimeout time.Duration
	NotifyTimeout  time.Duration
	// StepTimeout bounds each enrollment once the ledger is written
	StepTimeout time.Duration
}

// VerifyRequest is a signed gateway callback plus the courses it pays for
type VerifyRequest struct {
	UserID    uint
	OrderID   string
	PaymentID string
	Signature string
	CourseIDs []uint
}

// CourseFailure explains why one course of a verified payment was not enrolled
type CourseFailure struct {
	CourseID uint   `json:"courseId"`
	Reason   string `json:"reason"`
}

// VerifyResult aggregates the per course outcome of a verification
type VerifyResult struct {
	State    WorkflowState    `json:"state"`
	Payments []models.Payment `json:"payments,omitempty"`
	Enrolled []uint           `json:"enrolled"`
	Failed   []CourseFailure  `json:"failed,omitempty"`
	Notified []uint           `json:"notified,omitempty"`
}

// Succeeded reports whether every course was enrolled
func (r *VerifyResult) Succeeded() bool {
	return r.State == StateNotified || r.State == StateEnrolled
}

// Enroller adds a user to a course roster
type Enroller interface {
	Enroll(ctx context.Context, userID, courseID uint) (*EnrollmentResult, error)
	IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error)
}

// CheckoutService sequences order creation, verification, ledger, enrollment and notification
type CheckoutService struct {
	db         *gorm.DB
	gateway    payment.Gateway
	ledger     *LedgerRecorder
	enrollment Enroller
	notifier   notify.Notifier
	publisher  events.Publisher
	config     CheckoutConfig
}

// NewCheckoutService wires the workflow to its collaborators
func NewCheckoutService(db *gorm.DB, gateway payment.Gateway, ledger *LedgerRecorder, enrollment Enroller,
	notifier notify.Notifier, publisher events.Publisher, config CheckoutConfig) *CheckoutService {
	if config.Currency == "" {
		config.Currency = utils.DefaultCurrency
	}
	if config.GatewayTimeout <= 0 {
		config.GatewayTimeout = utils.DefaultGatewayTimeout
	}
	if config.NotifyTimeout <= 0 {
		config.NotifyTimeout = utils.DefaultOutboundTimeout
	}
	if config.StepTimeout <= 0 {
		config.StepTimeout = utils.DefaultOutboundTimeout
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &CheckoutService{
		db:         db,
		gateway:    gateway,
		ledger:     ledger,
		enrollment: enrollment,
		notifier:   notifier,
		publisher:  publisher,
		config:     config,
	}
}

// Currency returns the currency orders are created in
func (s *CheckoutService) Currency() string {
	return s.config.Currency
}

// KeyID returns the public gateway key for the client checkout form
func (s *CheckoutService) KeyID() string {
	return s.gateway.KeyID()
}

// CreateOrder prices the courses and opens a gateway order for them. The
// amount is the sum of prices in minor units.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uint, courseIDs []uint) (*payment.Order, error) {
	ids := uniqueIDs(courseIDs)
	if len(ids) == 0 {
		return nil, utils.BadRequestError("Please provide Course ID", ErrNoCourses)
	}

	db := s.db.WithContext(ctx)
	var total int64
	for _, id := range ids {
		var course models.Course
		if err := db.Select("id", "price").First(&course, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFoundError("Could not find the course", ErrCourseNotFound)
			}
			return nil, utils.InternalError("Could not load course", err)
		}

		enrolled, err := s.enrollment.IsEnrolled(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if enrolled {
			return nil, utils.ConflictError("Student is already enrolled", ErrAlreadyEnrolled)
		}
		total += course.Price
	}

	gctx, cancel := context.WithTimeout(ctx, s.config.GatewayTimeout)
	defer cancel()

	order, err := s.gateway.CreateOrder(gctx, total*100, s.config.Currency, uuid.New().String(), payment.OrderNotes(userID, ids))
	if err != nil {
		utils.LogError("Failed to create gateway order for user %d: %v", userID, err)
		return nil, utils.BadGatewayError("Could not initiate order.", err)
	}

	utils.LogInfo("Created gateway order %s for user %d, amount %d %s", order.ID, userID, order.Amount, order.Currency)
	return order, nil
}

// Verify authenticates a gateway callback, records the ledger and enrolls the
// user in every course. A per course failure does not undo earlier courses;
// the result is PartiallyFailed instead.
func (s *CheckoutService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	ids := uniqueIDs(req.CourseIDs)
	if req.UserID == 0 || req.OrderID == "" || req.PaymentID == "" || req.Signature == "" || len(ids) == 0 {
		return nil, utils.BadRequestError("Payment failed, data not found", ErrMissingCallbackData)
	}
	result := &VerifyResult{State: StateCallbackReceived, Enrolled: []uint{}}

	if !payment.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.config.KeySecret) {
		utils.LogSecurity("Payment signature mismatch for user %d, order %s, payment %s", req.UserID, req.OrderID, req.PaymentID)
		result.State = StateRejected
		return result, utils.BadRequestError("Payment failed", ErrSignatureMismatch)
	}
	result.State = StateVerified

	if err := s.checkOrder(ctx, req.UserID, req.OrderID, ids); err != nil {
		if errors.Is(err, ErrOrderMismatch) {
			result.State = StateRejected
		}
		return result, err
	}

	payments, err := s.ledger.Record(ctx, req.UserID, ids, req.OrderID, req.PaymentID)
	if err != nil {
		if !errors.Is(err, ErrPaymentReplayed) {
			utils.LogError("Failed to record payment %s for user %d: %v", req.PaymentID, req.UserID, err)
			return result, err
		}
		recorded, pending := s.pendingEnrollments(ctx, req.UserID, req.PaymentID)
		if len(pending) == 0 {
			utils.LogWarn("Replayed payment %s for user %d", req.PaymentID, req.UserID)
			return result, err
		}
		utils.LogWarn("Resuming enrollment of payment %s for user %d, %d courses pending", req.PaymentID, req.UserID, len(pending))
		payments, ids = recorded, pending
	}
	result.Payments = payments
	result.State = StateRecorded

	// the ledger is committed, enrollment no longer follows the caller's cancellation
	detached := context.WithoutCancel(ctx)

	var fresh []*EnrollmentResult
	for _, id := range ids {
		stepCtx, cancel := context.WithTimeout(detached, s.config.StepTimeout)
		enrolled, err := s.enrollment.Enroll(stepCtx, req.UserID, id)
		cancel()
		if err != nil {
			utils.LogError("Failed to enroll user %d in course %d: %v", req.UserID, id, err)
			result.Failed = append(result.Failed, CourseFailure{CourseID: id, Reason: reason(err)})
			continue
		}
		result.Enrolled = append(result.Enrolled, id)
		if !enrolled.AlreadyEnrolled {
			fresh = append(fresh, enrolled)
		}
	}

	if len(result.Failed) > 0 {
		result.State = StatePartiallyFailed
	} else {
		result.State = StateEnrolled
	}

	result.Notified = s.announce(detached, req.UserID, req.PaymentID, fresh)
	if result.State == StateEnrolled {
		result.State = StateNotified
	}
	return result, nil
}

// checkOrder confirms the gateway order was opened by userID for exactly courseIDs.
// The signature only binds order and payment, the order notes bind the courses.
func (s *CheckoutService) checkOrder(ctx context.Context, userID uint, orderID string, courseIDs []uint) error {
	gctx, cancel := context.WithTimeout(ctx, s.config.GatewayTimeout)
	defer cancel()

	order, err := s.gateway.FetchOrder(gctx, orderID)
	if err != nil {
		utils.LogError("Failed to fetch gateway order %s: %v", orderID, err)
		return utils.BadGatewayError("Could not verify order", err)
	}
	if !order.Covers(userID, courseIDs) {
		utils.LogSecurity("Payment callback for order %s by user %d names courses %s, order has %s for user %s",
			orderID, userID, payment.JoinIDs(courseIDs), order.Notes[payment.NoteCourses], order.Notes[payment.NoteUser])
		return utils.BadRequestError("Payment does not match the order", ErrOrderMismatch)
	}
	return nil
}

// pendingEnrollments returns the ledger entries of a recorded transaction and
// the courses among them the user is not enrolled in yet
func (s *CheckoutService) pendingEnrollments(ctx context.Context, userID uint, transactionID string) ([]models.Payment, []uint) {
	recorded, err := s.ledger.FindByTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, nil
	}

	var pending []uint
	for _, p := range recorded {
		enrolled, err := s.enrollment.IsEnrolled(ctx, userID, p.CourseID)
		if err != nil {
			utils.LogError("Failed to check enrollment of user %d in course %d: %v", userID, p.CourseID, err)
			return nil, nil
		}
		if !enrolled {
			pending = append(pending, p.CourseID)
		}
	}
	return recorded, pending
}

// announce mails and publishes every new enrollment. Failures are logged only.
func (s *CheckoutService) announce(ctx context.Context, userID uint, transactionID string, enrolled []*EnrollmentResult) []uint {
	if len(enrolled) == 0 {
		return nil
	}

	var user models.User
	lctx, cancel := context.WithTimeout(ctx, s.config.StepTimeout)
	err := s.db.WithContext(lctx).First(&user, userID).Error
	cancel()
	if err != nil {
		utils.LogWarn("DownstreamNotifyError: could not load user %d for enrollment email: %v", userID, err)
		return nil
	}

	var notified []uint
	for _, e := range enrolled {
		pctx, cancel := context.WithTimeout(ctx, s.config.NotifyTimeout)
		err := s.publisher.PublishEnrollment(pctx, events.EnrollmentEvent{
			Type:          events.EventEnrolled,
			UserID:        userID,
			CourseID:      e.Course.ID,
			TransactionID: transactionID,
			OccurredAt:    time.Now().UTC(),
		})
		cancel()
		if err != nil {
			utils.LogWarn("DownstreamNotifyError: enrollment event for user %d course %d: %v", userID, e.Course.ID, err)
		}

		if s.notifier == nil {
			continue
		}
		nctx, cancel := context.WithTimeout(ctx, s.config.NotifyTimeout)
		_, err = s.notifier.Send(nctx,
			user.Email,
			fmt.Sprintf("Successfully Enrolled into %s", e.Course.CourseName),
			notify.CourseEnrollmentEmail(e.Course.CourseName, user.FirstName),
		)
		cancel()
		if err != nil {
			utils.LogWarn("DownstreamNotifyError: enrollment email to user %d for course %d: %v", userID, e.Course.ID, err)
			continue
		}
		notified = append(notified, e.Course.ID)
	}
	return notified
}

// SendPaymentSuccessEmail mails a payment receipt. amount is in minor units.
func (s *CheckoutService) SendPaymentSuccessEmail(ctx context.Context, userID uint, orderID, paymentID string, amount int64) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundError("User not found", ErrUserNotFound)
		}
		return utils.InternalError("Could not load user", err)
	}
	if s.notifier == nil {
		return utils.ServiceUnavailableError("Could not send email", notify.ErrNotConfigured)
	}

	nctx, cancel := context.WithTimeout(ctx, s.config.NotifyTimeout)
	defer cancel()

	if _, err := s.notifier.Send(nctx, user.Email, "Payment Received",
		notify.PaymentSuccessEmail(user.FirstName, amount, orderID, paymentID)); err != nil {
		utils.LogError("Failed to send payment email to user %d: %v", userID, err)
		return utils.InternalError("Could not send email", err)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// reason is the client facing text of an enrollment failure. Driver and
// context errors stay in the log.
func reason(err error) string {
	if appErr := utils.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return "Could not enroll student"
}
