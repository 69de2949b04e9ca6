package bookings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

type dynamoScanAPI interface {
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoRecord is the item shape of the bookings table. Times are RFC3339.
type dynamoRecord struct {
	ID          string `dynamodbav:"bookingId"`
	Title       string `dynamodbav:"title"`
	StartTime   string `dynamodbav:"startTime"`
	EndTime     string `dynamodbav:"endTime"`
	Description string `dynamodbav:"description,omitempty"`
}

// DynamoSource scans a DynamoDB bookings table. Scan order is arbitrary, so
// results are sorted by start time.
type DynamoSource struct {
	client    dynamoScanAPI
	tableName string
	loc       *time.Location
	logger    *logging.Logger
}

// NewDynamoSource builds a source backed by the provided DynamoDB client.
func NewDynamoSource(client dynamoScanAPI, tableName string, loc *time.Location, logger *logging.Logger) *DynamoSource {
	if client == nil {
		panic("bookings: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("bookings: table name cannot be empty")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoSource{client: client, tableName: tableName, loc: loc, logger: logger}
}

// List implements Source.
func (s *DynamoSource) List(ctx context.Context) ([]scheduling.Booking, error) {
	var (
		out      []scheduling.Booking
		startKey map[string]types.AttributeValue
	)
	for {
		resp, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("bookings: scan dynamodb: %w", err)
		}

		var records []dynamoRecord
		if err := attributevalue.UnmarshalListOfMaps(resp.Items, &records); err != nil {
			return nil, fmt.Errorf("bookings: decode dynamodb items: %w", err)
		}
		for _, r := range records {
			b, err := s.toBooking(r)
			if err != nil {
				s.logger.Warn("bookings: skipping unreadable dynamodb item", "booking_id", r.ID, "error", err)
				continue
			}
			out = append(out, b)
		}

		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		startKey = resp.LastEvaluatedKey
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return keepValid(s.logger, "dynamodb", out), nil
}

func (s *DynamoSource) toBooking(r dynamoRecord) (scheduling.Booking, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return scheduling.Booking{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return scheduling.Booking{}, fmt.Errorf("endTime: %w", err)
	}
	return scheduling.Booking{
		ID:          r.ID,
		Title:       r.Title,
		Start:       start.In(s.loc),
		End:         end.In(s.loc),
		Description: r.Description,
	}, nil
}
