package api

import (
	"net/http"
	"testing"
)

// TestHandleEnroll は受講登録エンドポイントを検証する。
func TestHandleEnroll(t *testing.T) {
	t.Parallel()

	t.Run("一般ユーザーは受講登録できること", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t)
		w := doRequest(s, http.MethodPost, "/enrollments/enroll", issueTestToken(t, s, "u-1", false), map[string]any{
			"enrolledCourses": []map[string]string{{"courseId": "c-1"}, {"courseId": "c-2"}},
			"totalPrice":      3000,
		})
		assertMessage(t, w, http.StatusCreated, "Enrolled successfully")
		if got := parseJSON(t, w)["success"]; got != true {
			t.Errorf("success = %v, want true", got)
		}

		enrollments, err := s.queries.ListEnrollmentsByUserID(t.Context(), "u-1")
		if err != nil {
			t.Fatalf("ListEnrollmentsByUserID()でエラーが発生: %v", err)
		}
		if len(enrollments) != 1 || enrollments[0].TotalPrice != 3000 {
			t.Errorf("enrollments = %+v", enrollments)
		}
	})

	t.Run("管理者は受講登録できないこと", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t)
		w := doRequest(s, http.MethodPost, "/enrollments/enroll", issueTestToken(t, s, "admin", true), map[string]any{
			"enrolledCourses": []map[string]string{{"courseId": "c-1"}},
			"totalPrice":      1000,
		})
		assertMessage(t, w, http.StatusForbidden, "Admin is forbidden")
	})

	t.Run("入力が不正な場合はVALIDATION_ERRORの400になり何も保存されないこと", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t)
		token := issueTestToken(t, s, "u-1", false)
		bodies := []any{
			nil,
			map[string]any{"enrolledCourses": []map[string]string{{"courseId": "c-1"}}},
			map[string]any{"enrolledCourses": []map[string]string{{"courseId": ""}}, "totalPrice": 100},
		}
		for _, body := range bodies {
			w := doRequest(s, http.MethodPost, "/enrollments/enroll", token, body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("body=%v: ステータスコード = %d, want %d", body, w.Code, http.StatusBadRequest)
				continue
			}
			if got := parseErrorBody(t, w)["errorCode"]; got != "VALIDATION_ERROR" {
				t.Errorf("body=%v: errorCode = %v, want %q", body, got, "VALIDATION_ERROR")
			}
		}

		enrollments, err := s.queries.ListEnrollmentsByUserID(t.Context(), "u-1")
		if err != nil {
			t.Fatalf("ListEnrollmentsByUserID()でエラーが発生: %v", err)
		}
		if len(enrollments) != 0 {
			t.Errorf("件数 = %d, want 0", len(enrollments))
		}
	})
}

// TestHandleGetEnrollments は受講登録一覧エンドポイントを検証する。
func TestHandleGetEnrollments(t *testing.T) {
	t.Parallel()

	t.Run("自分の受講登録のみが登録順のコース付きで返されること", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t)
		token := issueTestToken(t, s, "u-1", false)
		for _, body := range []map[string]any{
			{"enrolledCourses": []map[string]string{{"courseId": "c-2"}, {"courseId": "c-1"}}, "totalPrice": 3000},
			{"enrolledCourses": []map[string]string{}, "totalPrice": 0},
		} {
			if w := doRequest(s, http.MethodPost, "/enrollments/enroll", token, body); w.Code != http.StatusCreated {
				t.Fatalf("受講登録: ステータスコード = %d, body=%s", w.Code, w.Body.String())
			}
		}
		other := issueTestToken(t, s, "u-2", false)
		if w := doRequest(s, http.MethodPost, "/enrollments/enroll", other, map[string]any{
			"enrolledCourses": []map[string]string{{"courseId": "c-3"}},
			"totalPrice":      500,
		}); w.Code != http.StatusCreated {
			t.Fatalf("他ユーザーの受講登録: ステータスコード = %d", w.Code)
		}

		w := doRequest(s, http.MethodGet, "/enrollments/get-enrollments", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		got := parseJSONArray(t, w)
		if len(got) != 2 {
			t.Fatalf("件数 = %d, want 2", len(got))
		}

		var withCourses map[string]any
		for _, e := range got {
			if e["userId"] != "u-1" || e["status"] != "Enrolled" {
				t.Errorf("enrollment = %v", e)
			}
			if courses, _ := e["enrolledCourses"].([]any); len(courses) == 2 {
				withCourses = e
			}
		}
		if withCourses == nil {
			t.Fatalf("コース付きの受講登録が見つからない: %v", got)
		}
		courses := withCourses["enrolledCourses"].([]any)
		first, _ := courses[0].(map[string]any)
		if first["courseId"] != "c-2" {
			t.Errorf("先頭のcourseId = %v, want %q", first["courseId"], "c-2")
		}
	})

	t.Run("受講登録が無い場合は404を返すこと", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t)
		w := doRequest(s, http.MethodGet, "/enrollments/get-enrollments", issueTestToken(t, s, "u-1", false), nil)
		assertMessage(t, w, http.StatusNotFound, "No enrolled courses")
	})

	t.Run("トークンが無い場合は400を返すこと", func(t *testing.T) {
		t.Parallel()

		s := setupTestServer(t)
		w := doRequest(s, http.MethodGet, "/enrollments/get-enrollments", "", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
