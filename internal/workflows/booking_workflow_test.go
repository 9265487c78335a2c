package workflows

import (
	"testing"
	"time"

	"github.com/driftline-mv/efoil-booking/internal/activities"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"
)

type BookingWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *BookingWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterActivity(activities.NewActivities(nil))
}

func (s *BookingWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func TestBookingWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(BookingWorkflowTestSuite))
}

func workflowInput() BookingWorkflowInput {
	return BookingWorkflowInput{
		BookingID:     "6f1f5a52-2f3e-4d10-9c2b-3d6a1f5b8e01",
		SlotID:        "EK/EK652/DXB-MLE-1145",
		ActivityDate:  "2026-09-01",
		Guests:        4,
		CustomerEmail: "crew@example.com",
	}
}

func (s *BookingWorkflowTestSuite) TestWorkflow_Constants() {
	s.Equal(30*time.Minute, PaymentWindow, "Payment window should be 30 minutes")
}

func (s *BookingWorkflowTestSuite) TestWorkflow_PaymentConfirms() {
	s.env.OnActivity("ConfirmBooking", mock.Anything, activities.ConfirmBookingInput{
		BookingID:       workflowInput().BookingID,
		PaymentIntentID: "pi_abc123",
	}).Return(&activities.ConfirmBookingResult{Confirmed: true}, nil)

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalPaymentConfirmed, PaymentConfirmedSignal{
			PaymentIntentID: "pi_abc123",
		})
	}, time.Minute)

	s.env.ExecuteWorkflow(BookingWorkflow, workflowInput())

	s.True(s.env.IsWorkflowCompleted())
	var result *BookingWorkflowResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.True(result.Success)
}

func (s *BookingWorkflowTestSuite) TestWorkflow_DuplicatePaymentAbsorbed() {
	// First delivery confirms; the redelivery reports duplicate and the
	// workflow still ends successfully with a single confirmation.
	s.env.OnActivity("ConfirmBooking", mock.Anything, mock.Anything).
		Return(&activities.ConfirmBookingResult{Duplicate: true}, nil).Once()
	s.env.OnActivity("ConfirmBooking", mock.Anything, mock.Anything).
		Return(&activities.ConfirmBookingResult{Confirmed: true}, nil).Once()

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalPaymentConfirmed, PaymentConfirmedSignal{PaymentIntentID: "pi_dup"})
	}, time.Minute)
	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalPaymentConfirmed, PaymentConfirmedSignal{PaymentIntentID: "pi_dup"})
	}, 2*time.Minute)

	s.env.ExecuteWorkflow(BookingWorkflow, workflowInput())

	s.True(s.env.IsWorkflowCompleted())
	var result *BookingWorkflowResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.True(result.Success)
}

func (s *BookingWorkflowTestSuite) TestWorkflow_CancelReleasesCapacity() {
	s.env.OnActivity("ReleaseSlot", mock.Anything, activities.ReleaseSlotInput{
		SlotID:       workflowInput().SlotID,
		ActivityDate: workflowInput().ActivityDate,
		Guests:       workflowInput().Guests,
		Reason:       "cancelled",
	}).Return(nil)
	s.env.OnActivity("UpdateBookingStatus", mock.Anything, mock.Anything).Return(nil)

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalCancelBooking, nil)
	}, time.Minute)

	s.env.ExecuteWorkflow(BookingWorkflow, workflowInput())

	s.True(s.env.IsWorkflowCompleted())
	var result *BookingWorkflowResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.False(result.Success)
	s.Equal("cancelled", result.FailureReason)
}

func (s *BookingWorkflowTestSuite) TestWorkflow_PaymentWindowExpires() {
	s.env.OnActivity("ReleaseSlot", mock.Anything, activities.ReleaseSlotInput{
		SlotID:       workflowInput().SlotID,
		ActivityDate: workflowInput().ActivityDate,
		Guests:       workflowInput().Guests,
		Reason:       "expired",
	}).Return(nil)
	s.env.OnActivity("UpdateBookingStatus", mock.Anything, mock.Anything).Return(nil)

	// No signals: the test environment advances past the payment window.
	s.env.ExecuteWorkflow(BookingWorkflow, workflowInput())

	s.True(s.env.IsWorkflowCompleted())
	var result *BookingWorkflowResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.False(result.Success)
	s.Equal("expired", result.FailureReason)
}

func (s *BookingWorkflowTestSuite) TestWorkflow_StateQuery() {
	s.env.OnActivity("ReleaseSlot", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("UpdateBookingStatus", mock.Anything, mock.Anything).Return(nil)

	s.env.RegisterDelayedCallback(func() {
		value, err := s.env.QueryWorkflow(QueryGetState)
		s.NoError(err)
		var state BookingWorkflowState
		s.NoError(value.Get(&state))
		s.Equal(workflowInput().BookingID, state.BookingID)
		s.Equal("pending", string(state.Status))
	}, time.Minute)

	s.env.ExecuteWorkflow(BookingWorkflow, workflowInput())
	s.True(s.env.IsWorkflowCompleted())
}
