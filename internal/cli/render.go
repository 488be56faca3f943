package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bookreview/internal/catalog"
	"bookreview/internal/models"

	"github.com/samber/lo"
)

const barWidth = 20

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderBookTable(w io.Writer, books []models.Book) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tYEAR\tRATING")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Title, b.Author, b.Genre, yearText(b.Year), ratingText(b.AverageRating, b.ReviewsCount))
	}
	tw.Flush()
}

func renderBook(w io.Writer, b *models.Book, hist []catalog.RatingBucket, canModify func(models.Review) bool) {
	fmt.Fprintf(w, "%s\n", b.Title)
	fmt.Fprintf(w, "by %s", b.Author)
	if b.Year != 0 {
		fmt.Fprintf(w, " (%s)", b.Year)
	}
	fmt.Fprintln(w)
	if b.Genre != "" {
		fmt.Fprintf(w, "Genre: %s\n", b.Genre)
	}
	fmt.Fprintf(w, "Rating: %s\n", ratingText(b.AverageRating, b.ReviewsCount))
	if b.Description != "" {
		fmt.Fprintf(w, "\n%s\n", b.Description)
	}

	fmt.Fprintln(w, "\nRatings")
	renderHistogram(w, hist)

	fmt.Fprintln(w, "\nReviews")
	if len(b.Reviews) == 0 {
		fmt.Fprintln(w, "  No reviews yet.")
		return
	}
	for _, r := range b.Reviews {
		mark := ""
		if canModify(r) {
			mark = " (yours)"
		}
		fmt.Fprintf(w, "  %s %s%s [%s]\n", stars(r.Rating), refName(r.User), mark, r.ID)
		fmt.Fprintf(w, "    %s\n", r.Comment)
	}
}

func renderHistogram(w io.Writer, hist []catalog.RatingBucket) {
	most := lo.MaxBy(hist, func(a, b catalog.RatingBucket) bool { return a.Count > b.Count }).Count
	for i := len(hist) - 1; i >= 0; i-- {
		b := hist[i]
		n := 0
		if most > 0 {
			n = b.Count * barWidth / most
		}
		fmt.Fprintf(w, "  %d★ %s%s %d\n", b.Rating, strings.Repeat("█", n), strings.Repeat(" ", barWidth-n), b.Count)
	}
}

func renderDistribution(w io.Writer, slices []catalog.Slice) {
	tw := newTable(w)
	for _, s := range slices {
		fmt.Fprintf(tw, "  %s\t%d\t%.1f%%\n", s.Name, s.Value, s.Percent)
	}
	tw.Flush()
}

func renderAuthoredReviews(w io.Writer, reviews []catalog.AuthoredReview) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tBOOK\tRATING\tCOMMENT")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.BookTitle, stars(r.Rating), r.Comment)
	}
	tw.Flush()
}

func stars(n int) string {
	n = max(0, min(n, catalog.MaxRating))
	return strings.Repeat("★", n) + strings.Repeat("☆", catalog.MaxRating-n)
}

func ratingText(avg float64, count int) string {
	if count == 0 {
		return "no reviews"
	}
	return fmt.Sprintf("%.1f (%d)", avg, count)
}

func yearText(y models.Year) string {
	if y == 0 {
		return ""
	}
	return y.String()
}

func refName(r models.Ref) string {
	if r.Name != "" {
		return r.Name
	}
	if r.ID != "" {
		return r.ID
	}
	return "anonymous"
}
