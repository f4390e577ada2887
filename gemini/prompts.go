package gemini

import (
	"fmt"

	"github.com/jobgenie/backend/models"
)

// IntentPrompt asks for SearchRefinements plus follow-up prompts.
// input is expected to be truncated by the caller.
func IntentPrompt(input string, isResume bool) string {
	source := "a job seeker's free-text search request"
	if isResume {
		source = "a job seeker's resume"
	}

	return fmt.Sprintf(`You turn %s into structured job search refinements.

INPUT:
%s

Return ONLY valid JSON (no markdown, no explanation) with this structure:
{
  "refinements": {
    "jobTitles": ["target role names"],
    "synonyms": ["alternative names for the same roles"],
    "location": {"city": "city name or empty", "remote": true/false, "hybrid": true/false, "timezone": ""},
    "seniority": "intern|junior|mid|senior|lead",
    "mustHaveSkills": ["skills the user requires"],
    "niceToHaveSkills": ["skills that would be a plus"],
    "salary": {"min": 0, "max": 0, "currency": "USD", "type": "hourly|yearly"},
    "contractType": "full-time|part-time|contract|freelance",
    "eligibility": {"visa": "", "relocation": false, "languages": []},
    "dateRange": null,
    "exclusions": {"companies": [], "keywords": [], "agencies": false},
    "targetCompanies": []
  },
  "missingInfo": ["short questions for information the user did not give, e.g. location or salary"],
  "suggestions": ["short example searches the user could run"]
}

Rules:
- Only use information present in the input. Leave fields empty instead of guessing.
- For a resume, infer job titles and skills from the most recent roles.
- seniority defaults to "mid" when unclear.
- dateRange is the maximum posting age in days. Set it only when the user states one ("posted today" is 0), otherwise null.
- Keep missingInfo and suggestions to at most 3 entries each.`, source, input)
}

// StructurePrompt asks for the canonical JobListing fields of a scraped job.
// raw.Description is expected to be truncated by the caller.
func StructurePrompt(raw models.ScrapedJob, sourceURL string) string {
	return fmt.Sprintf(`Normalize this scraped job posting into structured data.

SOURCE URL: %s
TITLE: %s
COMPANY: %s
LOCATION: %s
SALARY: %s
EMPLOYMENT TYPE: %s
POSTED: %s
DESCRIPTION:
%s

Return ONLY valid JSON (no markdown, no explanation) with this structure:
{
  "title": "job title",
  "company": "hiring company name",
  "location": "city, region or Remote",
  "description": "the job description as plain text",
  "salary": "salary as written, or empty",
  "currency": "ISO currency code, or empty",
  "employmentType": "Full-time|Part-time|Contract|Freelance|Internship",
  "workplaceType": "Onsite|Remote|Hybrid",
  "requirements": ["up to 5 requirements or qualifications"],
  "responsibilities": ["up to 5 responsibilities"],
  "companyInfo": {"about": "", "size": "", "industry": ""}
}

Rules:
- Use ONLY the data above. Do not invent salary, company facts or requirements.
- Leave a field empty when the data does not contain it.`,
		sourceURL, raw.Title, raw.Company, raw.Location, raw.Salary, raw.EmploymentType, raw.PostedDateText, raw.Description)
}
