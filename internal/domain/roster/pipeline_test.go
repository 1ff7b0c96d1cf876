package roster

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masy43/Student-Management-System/internal/domain/shared"
	"github.com/masy43/Student-Management-System/internal/domain/student"
)

func fields(id, name string, grade int, department student.Department) student.FormFields {
	return student.FormFields{
		ID:         id,
		Name:       name,
		Email:      fmt.Sprintf("%s@school.edu", id),
		Grade:      fmt.Sprintf("%d", grade),
		Department: string(department),
	}
}

// seeded returns the Bob/Amy/Cal roster used across the view and stats tests.
func seeded(t *testing.T) *Pipeline {
	t.Helper()
	p := New()
	for _, f := range []student.FormFields{
		fields("1", "Bob", 90, student.DepartmentPhysics),
		fields("2", "Amy", 60, student.DepartmentMathematics),
		fields("3", "Cal", 40, student.DepartmentBusiness),
	} {
		_, err := p.Add(f)
		require.NoError(t, err)
	}
	return p
}

func names(records []student.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestAdd_CreatesRecord(t *testing.T) {
	p := New()

	rec, err := p.Add(student.FormFields{
		Name:       "  Alice ",
		ID:         " S-1 ",
		Email:      "alice@school.edu",
		Grade:      "85.9",
		Department: "Computer Science",
	})
	require.NoError(t, err)

	assert.Equal(t, student.Record{
		ID:         "S-1",
		Name:       "Alice",
		Email:      "alice@school.edu",
		Grade:      85,
		Department: student.DepartmentComputerScience,
		Status:     student.StatusPassed,
	}, rec)
	assert.Equal(t, 1, p.Len())
}

func TestAdd_ValidationErrorDoesNotMutate(t *testing.T) {
	p := New()

	_, err := p.Add(student.FormFields{Name: "", ID: "1", Email: "bad", Grade: "abc", Department: "Physics"})
	require.Error(t, err)

	var verr *student.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"name":  student.MsgInvalidName,
		"email": student.MsgInvalidEmail,
		"grade": student.MsgInvalidGrade,
	}, verr.Messages())
	assert.Equal(t, 0, p.Len())
}

func TestAdd_UnknownDepartment(t *testing.T) {
	p := New()

	_, err := p.Add(fields("1", "Alice", 80, student.Department("Astrology")))

	var verr *student.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"department": student.MsgInvalidDepartment}, verr.Messages())
	assert.Equal(t, 0, p.Len())
}

func TestAdd_DuplicateNameIsCaseInsensitive(t *testing.T) {
	p := New()

	_, err := p.Add(fields("1", "Alice", 80, student.DepartmentPhysics))
	require.NoError(t, err)

	_, err = p.Add(fields("2", "alice", 70, student.DepartmentBusiness))
	require.Error(t, err)

	var dup *DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "alice", dup.Name)
	assert.True(t, errors.Is(err, shared.ErrDuplicateName))
	assert.True(t, shared.IsAlreadyExists(err))
	assert.Equal(t, 1, p.Len())
}

func TestAdd_DuplicateIDIsAccepted(t *testing.T) {
	p := New()

	_, err := p.Add(fields("1", "Alice", 80, student.DepartmentPhysics))
	require.NoError(t, err)
	_, err = p.Add(fields("1", "Bob", 30, student.DepartmentPhysics))
	require.NoError(t, err)

	assert.Equal(t, 2, p.Len())
}

func TestDelete(t *testing.T) {
	p := seeded(t)

	removed, found := p.Delete("2")
	assert.True(t, found)
	assert.Equal(t, "Amy", removed.Name)
	assert.Equal(t, []string{"Bob", "Cal"}, names(p.All()))
}

func TestDelete_NotFoundIsNoop(t *testing.T) {
	p := seeded(t)
	before := p.All()

	removed, found := p.Delete("42")
	assert.False(t, found)
	assert.Equal(t, student.Record{}, removed)
	assert.Equal(t, before, p.All())
}

func TestDelete_IsCaseSensitive(t *testing.T) {
	p := New()
	_, err := p.Add(fields("abc", "Alice", 80, student.DepartmentPhysics))
	require.NoError(t, err)

	_, found := p.Delete("ABC")
	assert.False(t, found)
	assert.Equal(t, 1, p.Len())
}

func TestDelete_RemovesEveryRecordWithID(t *testing.T) {
	p := New()
	_, _ = p.Add(fields("1", "Alice", 80, student.DepartmentPhysics))
	_, _ = p.Add(fields("1", "Bob", 30, student.DepartmentPhysics))
	_, _ = p.Add(fields("2", "Cal", 30, student.DepartmentPhysics))

	removed, found := p.Delete("1")
	assert.True(t, found)
	assert.Equal(t, "Alice", removed.Name)
	assert.Equal(t, []string{"Cal"}, names(p.All()))
}

func TestView_SortAndFilter(t *testing.T) {
	p := seeded(t)

	assert.Equal(t, []string{"Bob", "Amy", "Cal"}, names(p.View(ViewQuery{Filter: FilterAll, Sort: SortGrade})))
	assert.Equal(t, []string{"Amy", "Bob", "Cal"}, names(p.View(ViewQuery{Filter: FilterAll, Sort: SortName})))
	assert.Equal(t, []string{"Bob"}, names(p.View(ViewQuery{Filter: FilterPassed})))
	assert.Equal(t, []string{"Cal"}, names(p.View(ViewQuery{Filter: FilterFailed})))
	assert.Equal(t, []string{"Bob", "Amy", "Cal"}, names(p.View(ViewQuery{Filter: FilterAll, Sort: SortNone})))
	assert.Equal(t, []string{"Cal", "Amy", "Bob"}, names(p.View(ViewQuery{Sort: SortDepartment})))
}

func TestView_AverageOnlyVisibleUnderAll(t *testing.T) {
	p := seeded(t)

	for _, r := range p.View(ViewQuery{Filter: FilterPassed}) {
		assert.NotEqual(t, student.StatusAverage, r.Status)
	}
	for _, r := range p.View(ViewQuery{Filter: FilterFailed}) {
		assert.NotEqual(t, student.StatusAverage, r.Status)
	}
	assert.Contains(t, names(p.View(ViewQuery{Filter: FilterAll})), "Amy")
}

func TestView_Search(t *testing.T) {
	p := seeded(t)

	assert.Equal(t, []string{"Amy"}, names(p.View(ViewQuery{Search: "  AMY "})))
	assert.Equal(t, []string{"Bob"}, names(p.View(ViewQuery{Search: "physics"})))
	assert.Equal(t, []string{"Cal"}, names(p.View(ViewQuery{Search: "3@school"})))
	assert.Len(t, p.View(ViewQuery{Search: "school.edu"}), 3)
	assert.Empty(t, p.View(ViewQuery{Search: "zzz"}))
	assert.NotNil(t, p.View(ViewQuery{Search: "zzz"}))
}

func TestView_SearchThenFilterThenSort(t *testing.T) {
	p := New()
	_, _ = p.Add(fields("10", "Dana", 95, student.DepartmentEngineering))
	_, _ = p.Add(fields("11", "Eve", 72, student.DepartmentEngineering))
	_, _ = p.Add(fields("12", "Finn", 20, student.DepartmentEngineering))
	_, _ = p.Add(fields("13", "Gus", 99, student.DepartmentBusiness))

	got := p.View(ViewQuery{Search: "engineering", Filter: FilterPassed, Sort: SortName})
	assert.Equal(t, []string{"Dana", "Eve"}, names(got))
}

func TestView_StableTies(t *testing.T) {
	p := New()
	_, _ = p.Add(fields("1", "Zed", 80, student.DepartmentPhysics))
	_, _ = p.Add(fields("2", "Ann", 80, student.DepartmentBusiness))
	_, _ = p.Add(fields("3", "Max", 80, student.DepartmentPhysics))

	assert.Equal(t, []string{"Zed", "Ann", "Max"}, names(p.View(ViewQuery{Sort: SortGrade})))
	assert.Equal(t, []string{"Ann", "Zed", "Max"}, names(p.View(ViewQuery{Sort: SortDepartment})))
}

func TestView_LocaleAwareNameOrder(t *testing.T) {
	p := New()
	_, _ = p.Add(fields("1", "bob", 80, student.DepartmentPhysics))
	_, _ = p.Add(fields("2", "Émile", 80, student.DepartmentPhysics))
	_, _ = p.Add(fields("3", "Adam", 80, student.DepartmentPhysics))

	assert.Equal(t, []string{"Adam", "bob", "Émile"}, names(p.View(ViewQuery{Sort: SortName})))
}

func TestView_DoesNotMutateRoster(t *testing.T) {
	p := seeded(t)
	before := p.All()

	queries := []ViewQuery{
		{Sort: SortGrade},
		{Sort: SortName, Filter: FilterPassed},
		{Search: "a", Sort: SortDepartment},
		{Search: "nobody"},
	}
	for _, q := range queries {
		first := p.View(q)
		second := p.View(q)
		assert.Equal(t, first, second)
		assert.Equal(t, before, p.All())
	}

	view := p.View(ViewQuery{})
	view[0].Name = "Mutated"
	assert.Equal(t, "Bob", p.All()[0].Name)
}

func TestView_UnknownModesActAsIdentity(t *testing.T) {
	p := seeded(t)
	got := p.View(ViewQuery{Filter: FilterMode("weird"), Sort: SortMode("weird")})
	assert.Equal(t, []string{"Bob", "Amy", "Cal"}, names(got))
}

func TestStats(t *testing.T) {
	p := seeded(t)

	assert.Equal(t, Stats{Total: 3, AverageGrade: 63, PassedCount: 1, FailedCount: 1}, p.Stats())
}

func TestStats_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, New().Stats())
}

func TestStats_RoundsHalfUp(t *testing.T) {
	p := New()
	_, _ = p.Add(fields("1", "A", 50, student.DepartmentPhysics))
	_, _ = p.Add(fields("2", "B", 51, student.DepartmentPhysics))

	assert.Equal(t, 51, p.Stats().AverageGrade)
}

func TestStats_IgnoresView(t *testing.T) {
	p := seeded(t)
	_ = p.View(ViewQuery{Filter: FilterPassed})
	assert.Equal(t, 3, p.Stats().Total)
}

func TestParseModes(t *testing.T) {
	f, err := ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilterMode("Passed")
	require.NoError(t, err)
	assert.Equal(t, FilterPassed, f)

	_, err = ParseFilterMode("average")
	assert.True(t, errors.Is(err, shared.ErrInvalidFilter))
	assert.True(t, shared.IsInvalidInput(err))

	s, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, s)

	s, err = ParseSortMode("grade")
	require.NoError(t, err)
	assert.Equal(t, SortGrade, s)

	_, err = ParseSortMode("email")
	assert.True(t, errors.Is(err, shared.ErrInvalidSort))
}

func TestConcurrentAddsKeepNamesUnique(t *testing.T) {
	p := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = p.Add(fields(fmt.Sprintf("%d", i), "Same Name", 80, student.DepartmentPhysics))
			_ = p.View(ViewQuery{Sort: SortName})
			_ = p.Stats()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, p.Len())
}
