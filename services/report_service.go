package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/techagentng/greenloop/config"
	"github.com/techagentng/greenloop/db"
	apiError "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
	"github.com/techagentng/greenloop/services/verifier"
)

// Reward amounts. Reporting pays a fixed bonus; a verified collection
// pays a randomized amount in [CollectRewardMin, CollectRewardMax].
const (
	ReportPoints     = 10
	CollectRewardMin = 10
	CollectRewardMax = 59
)

const defaultTaskLimit = 20

// VerificationOutcome tells the collector how their photo fared.
// Verified false with a nil error means the adapter answered but the
// photo did not match; the report stays in_progress and no points move.
type VerificationOutcome struct {
	Verified     bool                        `json:"verified"`
	PointsEarned int                         `json:"points_earned"`
	Result       *verifier.WasteVerification `json:"result"`
}

// ReportService drives a report through pending -> in_progress ->
// verified.
type ReportService interface {
	CreateReport(userID uint, req *models.CreateReportRequest) (*models.Report, error)
	GetRecentReports(limit int) []models.Report
	GetCollectionTasks(limit int) []models.CollectionTask
	ClaimReport(reportID uuid.UUID, collectorID uint) error
	SubmitVerification(ctx context.Context, reportID uuid.UUID, collectorID uint, imageURL string) (*VerificationOutcome, error)
	AnalyzeWaste(ctx context.Context, imageURL string) (*verifier.WasteAnalysis, error)
}

type reportService struct {
	Config     *config.Config
	reportRepo db.ReportRepository
	rewardRepo db.RewardRepository
	verifier   verifier.Verifier
}

func NewReportService(reportRepo db.ReportRepository, rewardRepo db.RewardRepository, v verifier.Verifier, conf *config.Config) ReportService {
	return &reportService{
		Config:     conf,
		reportRepo: reportRepo,
		rewardRepo: rewardRepo,
		verifier:   v,
	}
}

// CreateReport validates the submission, makes sure the reporter has a
// reward record to credit, and persists report, ledger entry, cache
// bump, and notification as one unit.
func (s *reportService) CreateReport(userID uint, req *models.CreateReportRequest) (*models.Report, error) {
	if err := models.ConformInput(req); err != nil {
		log.Warnf("error conforming report input: %v", err)
	}
	if strings.TrimSpace(req.Location) == "" ||
		strings.TrimSpace(req.WasteType) == "" ||
		strings.TrimSpace(req.Amount) == "" {
		return nil, fmt.Errorf("%w: location, waste_type and amount are required", apiError.ErrValidation)
	}

	if _, err := s.rewardRepo.GetOrCreateReward(userID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:                 uuid.New(),
		UserID:             userID,
		Location:           req.Location,
		WasteType:          req.WasteType,
		Amount:             req.Amount,
		ImageURL:           req.ImageURL,
		VerificationResult: sanitizeVerificationPayload(req.VerificationResult),
		Status:             models.ReportStatusPending,
	}

	return s.reportRepo.CreateWithAward(report, ReportPoints)
}

// sanitizeVerificationPayload keeps the analysis payload only when it
// is valid JSON with the expected fields; anything else is stored as
// null rather than trusted.
func sanitizeVerificationPayload(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var analysis verifier.WasteAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		log.Warnf("discarding malformed verification payload: %v", err)
		return nil
	}
	if analysis.WasteType == "" || analysis.Quantity == "" || analysis.Confidence == 0 {
		return nil
	}
	return &raw
}

// GetRecentReports lists the newest reports; store failures degrade to
// the empty slice.
func (s *reportService) GetRecentReports(limit int) []models.Report {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	reports, err := s.reportRepo.ListRecentReports(limit)
	if err != nil {
		log.Errorf("error fetching recent reports: %v", err)
		return []models.Report{}
	}
	return reports
}

func (s *reportService) GetCollectionTasks(limit int) []models.CollectionTask {
	if limit <= 0 {
		limit = defaultTaskLimit
	}
	reports, err := s.reportRepo.ListCollectionTasks(limit)
	if err != nil {
		log.Errorf("error fetching collection tasks: %v", err)
		return []models.CollectionTask{}
	}
	tasks := make([]models.CollectionTask, 0, len(reports))
	for i := range reports {
		tasks = append(tasks, reports[i].TaskView())
	}
	return tasks
}

// ClaimReport attaches the collector to a pending report. The conflict
// between two simultaneous claimants is resolved by the repository's
// conditional update; the loser gets ErrAlreadyClaimed and is not
// retried.
func (s *reportService) ClaimReport(reportID uuid.UUID, collectorID uint) error {
	return s.reportRepo.Claim(reportID, collectorID)
}

// SubmitVerification sends the collector's photo to the verifier and,
// on an accepted match, completes the report. Acceptance requires the
// type or the quantity to match, and the confidence to clear the
// configured threshold. A rejected match leaves the report in_progress
// with nothing awarded.
func (s *reportService) SubmitVerification(ctx context.Context, reportID uuid.UUID, collectorID uint, imageURL string) (*VerificationOutcome, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("%w: verification image is required", apiError.ErrValidation)
	}

	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusInProgress {
		return nil, fmt.Errorf("%w: report is %s", apiError.ErrInvalidTransition, report.Status)
	}
	if report.CollectorID == nil || *report.CollectorID != collectorID {
		return nil, fmt.Errorf("%w: report is claimed by another collector", apiError.ErrInvalidTransition)
	}

	vctx, cancel := context.WithTimeout(ctx, s.Config.VerificationTimeout)
	defer cancel()

	result, err := s.verifier.Verify(vctx, imageURL, verifier.Expected{
		WasteType: report.WasteType,
		Amount:    report.Amount,
	})
	if err != nil {
		log.Warnf("verification call failed for report %s: %v", reportID, err)
		return nil, apiError.ErrVerificationFailed
	}

	matched := (result.TypeMatch || result.QuantityMatch) &&
		result.Confidence > s.Config.VerificationConfidence
	if !matched {
		return &VerificationOutcome{Verified: false, Result: result}, nil
	}

	points := rand.Intn(CollectRewardMax-CollectRewardMin+1) + CollectRewardMin
	if _, err := s.rewardRepo.GetOrCreateReward(collectorID); err != nil {
		return nil, err
	}
	if err := s.reportRepo.CompleteVerification(reportID, collectorID, points); err != nil {
		return nil, err
	}

	return &VerificationOutcome{Verified: true, PointsEarned: points, Result: result}, nil
}

// AnalyzeWaste asks the adapter to estimate type and quantity for a
// report photo, bounded by the configured timeout.
func (s *reportService) AnalyzeWaste(ctx context.Context, imageURL string) (*verifier.WasteAnalysis, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("%w: image url is required", apiError.ErrValidation)
	}
	actx, cancel := context.WithTimeout(ctx, s.Config.VerificationTimeout)
	defer cancel()

	analysis, err := s.verifier.Analyze(actx, imageURL)
	if err != nil {
		log.Warnf("analysis call failed: %v", err)
		return nil, apiError.ErrVerificationFailed
	}
	return analysis, nil
}
