package aws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/costreports/costreports/internal/domain/entity"
	"github.com/costreports/costreports/internal/domain/repository"
)

// costMetric is the metric the analysis runs on. Net of credits and
// refunds, so commitment discounts show up as the rate drops they are.
const costMetric = "NetUnblendedCost"

const usageMetric = "UsageQuantity"

// CostRepositoryImpl implements CostRepository with client caching.
type CostRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewCostRepository creates a new CostRepository implementation.
func NewCostRepository() repository.CostRepository {
	return &CostRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
	}
}

func (r *CostRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *CostRepositoryImpl) getServiceClient(ctx context.Context, profile, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s", profile, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "costexplorer":
		// Cost Explorer is a global API served out of us-east-1.
		regionalCfg.Region = "us-east-1"
		client = costexplorer.NewFromConfig(regionalCfg)
	case "budgets":
		regionalCfg.Region = "us-east-1"
		client = budgets.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

func (r *CostRepositoryImpl) GetAWSProfiles() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"default"}
	}

	credentialsPath := filepath.Join(homeDir, ".aws", "credentials")
	configPath := filepath.Join(homeDir, ".aws", "config")

	profiles := make(map[string]bool)
	profileRegex := regexp.MustCompile(`\[([^]]+)\]`)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		matches := profileRegex.FindAllStringSubmatch(string(content), -1)
		for _, match := range matches {
			profileName := match[1]
			if isConfig {
				profileName = strings.TrimPrefix(profileName, "profile ")
			}
			profiles[profileName] = true
		}
	}

	parseFile(credentialsPath, false)
	parseFile(configPath, true)

	if len(profiles) == 0 {
		profiles["default"] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

func (r *CostRepositoryImpl) GetCallerIdentity(ctx context.Context, profile string) (entity.CallerIdentity, error) {
	client, err := r.getServiceClient(ctx, profile, "sts")
	if err != nil {
		return entity.CallerIdentity{}, err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return entity.CallerIdentity{}, fmt.Errorf("error getting caller identity for profile %s: %w", profile, err)
	}

	identity := entity.CallerIdentity{}
	if result.Account != nil {
		identity.Account = *result.Account
	}
	if result.Arn != nil {
		identity.Arn = *result.Arn
	}
	if result.UserId != nil {
		identity.UserID = *result.UserId
	}
	return identity, nil
}

// GetMonthlyCosts fetches per-usage-type and per-region cost lines for
// every requested month. Months are fetched concurrently; the record
// order across months is normalized afterwards so callers see the input
// month order.
func (r *CostRepositoryImpl) GetMonthlyCosts(ctx context.Context, profile string, months []string) ([]entity.CostRecord, []entity.RegionCostRecord, error) {
	client, err := r.getServiceClient(ctx, profile, "costexplorer")
	if err != nil {
		return nil, nil, err
	}
	ceClient := client.(*costexplorer.Client)

	recordsByMonth := make([][]entity.CostRecord, len(months))
	regionsByMonth := make([][]entity.RegionCostRecord, len(months))

	var wg sync.WaitGroup
	var mu sync.Mutex
	errChan := make(chan error, len(months)*2)

	for i, month := range months {
		start, end, err := monthWindow(month)
		if err != nil {
			return nil, nil, err
		}

		wg.Add(1)
		go func(i int, month string, start, end time.Time) {
			defer wg.Done()
			records, err := r.getUsageTypeCosts(ctx, ceClient, month, start, end)
			if err != nil {
				errChan <- fmt.Errorf("failed to get usage costs for %s: %w", month, err)
				return
			}
			mu.Lock()
			recordsByMonth[i] = records
			mu.Unlock()
		}(i, month, start, end)

		wg.Add(1)
		go func(i int, month string, start, end time.Time) {
			defer wg.Done()
			records, err := r.getRegionCosts(ctx, ceClient, month, start, end)
			if err != nil {
				errChan <- fmt.Errorf("failed to get region costs for %s: %w", month, err)
				return
			}
			mu.Lock()
			regionsByMonth[i] = records
			mu.Unlock()
		}(i, month, start, end)
	}

	wg.Wait()
	close(errChan)

	if len(errChan) > 0 {
		return nil, nil, <-errChan
	}

	var records []entity.CostRecord
	var regions []entity.RegionCostRecord
	for i := range months {
		records = append(records, recordsByMonth[i]...)
		regions = append(regions, regionsByMonth[i]...)
	}
	return records, regions, nil
}

func (r *CostRepositoryImpl) getUsageTypeCosts(ctx context.Context, client *costexplorer.Client, month string, start, end time.Time) ([]entity.CostRecord, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{costMetric, usageMetric},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("USAGE_TYPE")},
		},
		Filter: excludeTaxFilter(),
	}

	var records []entity.CostRecord
	for {
		result, err := client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, period := range result.ResultsByTime {
			for _, group := range period.Groups {
				if len(group.Keys) < 2 {
					continue
				}
				records = append(records, entity.CostRecord{
					Service:   group.Keys[0],
					UsageType: group.Keys[1],
					Month:     month,
					Cost:      metricAmount(group.Metrics, costMetric),
					Usage:     metricAmount(group.Metrics, usageMetric),
				})
			}
		}
		if result.NextPageToken == nil {
			break
		}
		input.NextPageToken = result.NextPageToken
	}
	return records, nil
}

func (r *CostRepositoryImpl) getRegionCosts(ctx context.Context, client *costexplorer.Client, month string, start, end time.Time) ([]entity.RegionCostRecord, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{costMetric},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("REGION")},
		},
		Filter: excludeTaxFilter(),
	}

	var records []entity.RegionCostRecord
	for {
		result, err := client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, period := range result.ResultsByTime {
			for _, group := range period.Groups {
				if len(group.Keys) < 1 {
					continue
				}
				records = append(records, entity.RegionCostRecord{
					Region: group.Keys[0],
					Month:  month,
					Cost:   metricAmount(group.Metrics, costMetric),
				})
			}
		}
		if result.NextPageToken == nil {
			break
		}
		input.NextPageToken = result.NextPageToken
	}
	return records, nil
}

func (r *CostRepositoryImpl) GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error) {
	client, err := r.getServiceClient(ctx, profile, "budgets")
	if err != nil {
		return nil, err
	}
	budgetsClient := client.(*budgets.Client)

	identity, err := r.GetCallerIdentity(ctx, profile)
	if err != nil {
		return nil, err
	}

	result, err := budgetsClient.DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(identity.Account),
	})
	if err != nil {
		return nil, nil // Not a fatal error
	}

	budgetsData := []entity.BudgetInfo{}
	for _, budget := range result.Budgets {
		b := entity.BudgetInfo{}
		if budget.BudgetName != nil {
			b.Name = *budget.BudgetName
		}
		if budget.BudgetLimit != nil && budget.BudgetLimit.Amount != nil {
			b.Limit, _ = strconv.ParseFloat(*budget.BudgetLimit.Amount, 64)
		}
		if budget.CalculatedSpend != nil {
			if budget.CalculatedSpend.ActualSpend != nil && budget.CalculatedSpend.ActualSpend.Amount != nil {
				b.Actual, _ = strconv.ParseFloat(*budget.CalculatedSpend.ActualSpend.Amount, 64)
			}
			if budget.CalculatedSpend.ForecastedSpend != nil && budget.CalculatedSpend.ForecastedSpend.Amount != nil {
				b.Forecast, _ = strconv.ParseFloat(*budget.CalculatedSpend.ForecastedSpend.Amount, 64)
			}
		}
		budgetsData = append(budgetsData, b)
	}

	return budgetsData, nil
}

// excludeTaxFilter drops tax line items, which carry no usage signal and
// would otherwise pollute every service comparison.
func excludeTaxFilter() *ceTypes.Expression {
	return &ceTypes.Expression{
		Not: &ceTypes.Expression{
			Dimensions: &ceTypes.DimensionValues{
				Key:    ceTypes.DimensionRecordType,
				Values: []string{"Tax"},
			},
		},
	}
}

// monthWindow converts a YYYY-MM month into the half-open [start, end)
// interval Cost Explorer expects. December rolls over into January.
func monthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

func metricAmount(metrics map[string]ceTypes.MetricValue, name string) float64 {
	val, ok := metrics[name]
	if !ok || val.Amount == nil {
		return 0
	}
	amount, _ := strconv.ParseFloat(*val.Amount, 64)
	return amount
}
