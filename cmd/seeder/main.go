package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/poiesic/pharmainspect"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

var institutions = []string{
	"صيدلية النور",
	"صيدلية الشفاء",
	"صيدلية الحياة",
	"صيدلية الرحمة",
	"صيدلية السلام",
	"صيدلية الأمل",
	"صيدلية المدينة",
	"صيدلية الصحة",
	"مستشفى الملك فهد",
	"مستشفى الأمل",
	"مركز الرعاية الصحية الأولية",
	"مستودع الأدوية المركزي",
}

var locations = []string{"الرياض", "جدة", "الدمام", "مكة المكرمة", "المدينة المنورة", "أبها"}

var inspectors = []string{"أحمد", "سارة", "خالد", "منى", "عبدالله", "فاطمة"}

var pharmacists = []string{"محمد", "نورة", "فهد", "ريم", "سلمان"}

var workPlaces = []string{"الرقابة الدوائية", "إدارة الصيدلة", "التفتيش الميداني"}

var reasons = []string{"تفتيش دوري", "شكوى", "متابعة مخالفة سابقة", "ترخيص جديد"}

var violations = map[string][]string{
	core.SectionInventoryManagement: {
		"أدوية منتهية الصلاحية",
		"سوء تخزين الأدوية المبردة",
		"عدم وجود سجل للمخزون",
	},
	"controlledDrugs": {
		"عدم مطابقة سجل الأدوية المراقبة",
		"صرف دواء مراقب بدون وصفة",
	},
	"facility": {
		"عدم توفر ترخيص ساري",
		"عدم نظافة مكان العمل",
	},
}

var weekdays = []string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

var (
	seedFileName = flag.String("src", "", "file of institution names, one per line")
	dbPath       = flag.String("db", "./pharmainspect_db", "database directory")
	count        = flag.Int("n", 200, "number of records to seed")
	seed         = flag.Uint64("seed", 1, "random seed")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile reads every line of a file.
func linesFromFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}

// generateRecords returns an iterator over n random inspection records dated
// within the year before now.
func generateRecords(rng *rand.Rand, names []string, n int, now time.Time) iter.Seq[*core.Record] {
	return func(yield func(*core.Record) bool) {
		for range n {
			date := now.AddDate(0, 0, -rng.IntN(365))
			inspectorNames := core.NamesOf(pick(rng, inspectors))
			if rng.IntN(4) == 0 {
				inspectorNames = append(inspectorNames, pick(rng, inspectors))
			}

			results := core.InspectionResults{}
			for section, texts := range violations {
				if rng.IntN(2) == 0 {
					results[section] = []string{pick(rng, texts)}
				}
			}

			record := &core.Record{
				BasicData: core.BasicData{
					Day:                weekdays[date.Weekday()],
					Date:               date.Format(core.DateLayout),
					Time:               fmt.Sprintf("%02d:%02d", 8+rng.IntN(9), rng.IntN(60)),
					InstitutionName:    pick(rng, names),
					InspectionLocation: pick(rng, locations),
					PresentPharmacist:  pick(rng, pharmacists),
					InspectionReason:   pick(rng, reasons),
					InspectorName:      inspectorNames,
					WorkPlace:          core.NamesOf(pick(rng, workPlaces)),
				},
				InspectionResults: results,
				CreatedBy:         core.DefaultCreatedBy,
			}
			if !yield(record) {
				return
			}
		}
	}
}

// storeBatched reads from a source iterator and stores records in batches.
func storeBatched(ctx context.Context, records storage.RecordRepository, source iter.Seq[*core.Record], batchSize int) (int, error) {
	batch := make([]*core.Record, 0, batchSize)
	stored := 0

	for record := range source {
		batch = append(batch, record)
		if len(batch) == batchSize {
			if _, err := records.AddRecords(ctx, batch...); err != nil {
				return stored, err
			}
			stored += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if _, err := records.AddRecords(ctx, batch...); err != nil {
			return stored, err
		}
		stored += len(batch)
	}

	return stored, nil
}

func main() {
	db, err := pharmainspect.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	names := institutions
	if *seedFileName != "" {
		names, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
		if len(names) == 0 {
			panic("no institution names in " + *seedFileName)
		}
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	source := generateRecords(rng, names, *count, time.Now())

	stored, err := storeBatched(context.Background(), db.RecordRepository(), source, 50)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded records", "count", stored, "db", *dbPath)
}
