package analysis

import (
	"fmt"

	"github.com/fixora-ai/fixora/internal/llm"
)

const (
	systemPrompt = "You are an expert resume analyst and career coach. Analyze resumes against job descriptions and provide detailed, actionable feedback."
	maxTokens    = 2000
)

const userPromptFormat = `
%s

Please analyze the following resume against the job description and provide a comprehensive analysis in the following JSON format:

{
  "matchScore": <number between 0-100>,
  "missingKeywords": ["keyword1", "keyword2", ...],
  "suggestions": ["suggestion1", "suggestion2", ...],
  "rewriteExamples": [
    {
      "original": "original text from resume",
      "improved": "improved version"
    }
  ],
  "overallFeedback": "detailed overall assessment",
  "coverLetter": "professionally written cover letter tailored to this job",
  "atsScore": <number between 0-100>,
  "atsOptimizations": ["ats optimization1", "ats optimization2", ...]
}

**Job Description:**
%s

**Resume Content:**
%s

**Analysis Requirements:**
1. Calculate a match score (0-100) based on how well the resume aligns with the job requirements
2. Identify 3-7 missing keywords or skills that are mentioned in the job description but not in the resume
3. Provide 4-6 specific, actionable suggestions for improvement
4. Give 2-3 concrete rewrite examples showing how to improve specific sections
5. Provide overall feedback that is constructive and specific
6. Generate a professional cover letter (200-300 words) tailored to this specific job and the candidate's background
7. Calculate an ATS (Applicant Tracking System) score (0-100) based on keyword density, formatting, and structure
8. Provide 3-5 specific ATS optimization recommendations

Please ensure your response is valid JSON and focuses on practical, actionable advice.`

func purposeContext(purpose string) string {
	if purpose == PurposeBeforeApplying {
		return "The candidate is preparing to apply for this position and wants to optimize their resume."
	}
	return "The candidate was rejected for this position and wants to understand how to improve their resume for similar roles."
}

// BuildPrompt renders the analysis prompt for req.
func BuildPrompt(req Request) llm.Prompt {
	return llm.Prompt{
		System:    systemPrompt,
		User:      fmt.Sprintf(userPromptFormat, purposeContext(req.Purpose), req.JobDescription, req.ResumeText),
		MaxTokens: maxTokens,
	}
}
